package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"unicrew/backend/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Errors the handlers translate into HTTP statuses.
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrRoomNotFound        = errors.New("chat room not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrNotAccepted         = errors.New("application is not accepted")
	ErrNotEnded            = errors.New("application is not ended")
	ErrDuplicateReview     = errors.New("review already exists for this application")
)

type Storage interface {
	// Accounts
	SaveAccount(account *models.Account) error
	GetAccountByID(id string) (*models.Account, error)

	// Applications
	CreateApplication(app *models.Application) error
	GetApplicationByID(id string) (*models.Application, error)
	ListApplicantsByJob(jobID string) ([]models.Application, error)
	UpdateStatuses(jobID string, userIDs []string, target models.Status) ([]models.Application, error)
	EndApplication(applicationID string) (*models.Application, error)

	// Chat
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	SaveMessage(msg *models.ChatHistory) error
	GetChatHistory(roomID string) ([]models.ChatHistory, error)
	PublishFrame(roomID string, frame models.Frame) error
	SubscribeToAllRooms() *redis.PubSub

	// Reviews
	SaveReview(review *models.Review) error
	ListPendingReviews(accountID, role string) ([]models.Application, error)
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveAccount upserts an account record.
func (s *Service) SaveAccount(account *models.Account) error {
	return s.DB.Save(account).Error
}

func (s *Service) GetAccountByID(id string) (*models.Account, error) {
	var account models.Account
	err := s.DB.Where("id = ?", id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateApplication inserts a freshly submitted application. Status defaults
// to applied through the model hook.
func (s *Service) CreateApplication(app *models.Application) error {
	return s.DB.Create(app).Error
}

func (s *Service) GetApplicationByID(id string) (*models.Application, error) {
	var app models.Application
	err := s.DB.Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListApplicantsByJob returns every application for the job, newest first
// within each status so fresh applicants surface at the top of their group.
func (s *Service) ListApplicantsByJob(jobID string) ([]models.Application, error) {
	var apps []models.Application
	if err := s.DB.Where("job_id = ?", jobID).
		Order("created_at desc").
		Find(&apps).Error; err != nil {
		log.Printf("ERROR: Failed to list applicants for job %s: %v", jobID, err)
		return nil, err
	}
	return apps, nil
}

// UpdateStatuses moves every listed applicant of the job to the target
// status in one transaction. The whole batch fails if any single move is
// illegal, so callers never have to reconcile partial success. Shortlisting
// assigns a chat room to each application that does not have one yet.
func (s *Service) UpdateStatuses(jobID string, userIDs []string, target models.Status) ([]models.Application, error) {
	if target == models.StatusEnded {
		// Ending is single-target and goes through EndApplication.
		return nil, ErrIllegalTransition
	}

	var updated []models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var apps []models.Application
		if err := tx.Where("job_id = ? AND user_id IN ?", jobID, userIDs).
			Find(&apps).Error; err != nil {
			return err
		}
		if len(apps) != len(userIDs) {
			return ErrApplicationNotFound
		}

		now := time.Now()
		for i := range apps {
			app := &apps[i]
			if !models.CanTransition(app.Status, target) {
				return ErrIllegalTransition
			}
			app.Status = target
			switch target {
			case models.StatusShortListed:
				if app.ChatRoomID == nil {
					room, err := s.createRoomForApplication(tx, app)
					if err != nil {
						return err
					}
					app.ChatRoomID = &room.RoomID
				}
			case models.StatusAccepted:
				app.AcceptedDate = &now
			}
			if err := tx.Save(app).Error; err != nil {
				return err
			}
		}
		updated = apps
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// createRoomForApplication opens the application's chat room, capturing both
// display names so history rendering never needs another account lookup.
func (s *Service) createRoomForApplication(tx *gorm.DB, app *models.Application) (*models.ChatRoom, error) {
	var user, company models.Account
	if err := tx.Where("id = ?", app.UserID).First(&user).Error; err != nil {
		return nil, ErrAccountNotFound
	}
	if err := tx.Where("id = ?", app.CompanyID).First(&company).Error; err != nil {
		return nil, ErrAccountNotFound
	}

	room := models.ChatRoom{
		RoomID:        uuid.New().String(),
		ApplicationID: app.ID,
		UserID:        app.UserID,
		CompanyID:     app.CompanyID,
		UserName:      user.DisplayName,
		CompanyName:   company.DisplayName,
		StartedAt:     time.Now(),
	}
	if err := tx.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

// EndApplication moves a single accepted application to ended and stamps the
// completion date. Bulk ending is deliberately not supported.
func (s *Service) EndApplication(applicationID string) (*models.Application, error) {
	var app models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", applicationID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if app.Status != models.StatusAccepted {
			return ErrNotAccepted
		}
		now := time.Now()
		app.Status = models.StatusEnded
		app.CompletedDate = &now
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// SaveMessage persists a message. The row ID becomes the wire message ID.
func (s *Service) SaveMessage(msg *models.ChatHistory) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetChatHistory returns the room's messages ordered oldest first. The row
// id breaks ties between messages stored in the same instant.
func (s *Service) GetChatHistory(roomID string) ([]models.ChatHistory, error) {
	var history []models.ChatHistory
	if err := s.DB.Where("room_id = ?", roomID).Order("created_at asc, id asc").Find(&history).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return history, nil
		}
		log.Printf("ERROR: Failed to get chat history for room %s: %v", roomID, err)
		return nil, err
	}
	return history, nil
}

// PublishFrame publishes a chat frame to the room's Redis Pub/Sub channel so
// every server instance holding a connection into the room can fan it out.
func (s *Service) PublishFrame(roomID string, frame models.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, roomID, string(payload)).Err(); err != nil {
		return err
	}
	return nil
}

func (s *Service) SubscribeToAllRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, "*")
}

// SaveReview stores a review for an ended application. One review per
// application and counterparty type.
func (s *Service) SaveReview(review *models.Review) error {
	app, err := s.GetApplicationByID(review.ApplicationID)
	if err != nil {
		return err
	}
	if app.Status != models.StatusEnded {
		return ErrNotEnded
	}

	var existing models.Review
	err = s.DB.Where("application_id = ? AND counterparty_type = ?",
		review.ApplicationID, review.CounterpartyType).First(&existing).Error
	if err == nil {
		return ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := s.DB.Create(review).Error; err != nil {
		log.Printf("ERROR: Failed to save review for application %s: %v", review.ApplicationID, err)
		return err
	}
	return nil
}

// ListPendingReviews returns the caller's ended applications that are still
// missing a review from the caller's side. Filtering happens here, not in
// the client.
func (s *Service) ListPendingReviews(accountID, role string) ([]models.Application, error) {
	ownerColumn := "user_id"
	counterparty := models.CounterpartyCompany
	if role == models.RoleCompany {
		ownerColumn = "company_id"
		counterparty = models.CounterpartyUser
	}

	var apps []models.Application
	err := s.DB.Where(ownerColumn+" = ? AND status = ?", accountID, models.StatusEnded).
		Where("id NOT IN (?)", s.DB.Model(&models.Review{}).
			Select("application_id").
			Where("counterparty_type = ?", counterparty)).
		Order("updated_at desc").
		Find(&apps).Error
	if err != nil {
		log.Printf("ERROR: Failed to list pending reviews for %s: %v", accountID, err)
		return nil, err
	}
	return apps, nil
}
