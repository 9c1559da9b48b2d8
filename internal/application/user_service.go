package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Agrawal-Rajat/techno-club-backend/internal/domain/entity"
	domainerrors "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/errors"
	repo "github.com/Agrawal-Rajat/techno-club-backend/internal/domain/repository"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/helpers"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/validation"
)

// UserService covers login/session issuance, profiles, member search and the
// bulk user importer.
type UserService struct {
	Repo         repo.UserRepository
	Events       repo.EventRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewUserService(users repo.UserRepository, events repo.EventRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *UserService {
	return &UserService{
		Repo:         users,
		Events:       events,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Name   string      `json:"name"`
	Role   entity.Role `json:"role"`
	Club   entity.Club `json:"club"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, domainerrors.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, domainerrors.ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
// The session hash carries role and club so middleware can authorize without
// a database round trip.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"role":       string(u.Role),
			"club":       string(u.Club),
			"sid":        sid,
			"created_at": nowRFC3339(),
		})
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return &LoginResponse{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role, Club: u.Club}, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", domainerrors.ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", domainerrors.ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", domainerrors.ErrInvalidCredentials
		}
	}
	// Rotate session id and tokens
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// EventStats summarizes a user's event involvement for the profile page.
type EventStats struct {
	EventsCreated       int `json:"eventsCreated"`
	EventsParticipating int `json:"eventsParticipating"`
	UpcomingEvents      int `json:"upcomingEvents"`
	PastEvents          int `json:"pastEvents"`
}

// Profile bundles the user document with event stats.
type Profile struct {
	User                *entity.User
	Stats               EventStats
	CreatedEvents       []*entity.Event
	ParticipatingEvents []*entity.Event
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	created, err := s.Events.ListByCreator(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	participating, err := s.Events.ListByParticipant(ctx, u.ID, true)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := EventStats{
		EventsCreated:       len(created),
		EventsParticipating: len(participating),
	}
	for _, e := range participating {
		if e.StartDate.After(now) {
			stats.UpcomingEvents++
		}
		if e.EndDate.Before(now) {
			stats.PastEvents++
		}
	}

	return &Profile{User: u, Stats: stats, CreatedEvents: created, ParticipatingEvents: participating}, nil
}

type UpdateProfileInput struct {
	Name             string
	Bio              string
	EnrollmentNumber string
	Year             int
	ContactNumber    string
	ImageURL         string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.Name = in.Name
	u.Bio = in.Bio
	u.EnrollmentNumber = in.EnrollmentNumber
	u.Year = in.Year
	u.ContactNumber = in.ContactNumber
	if in.ImageURL != "" {
		u.ImageURL = in.ImageURL
	}
	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{"name": u.Name, "updated_at": nowRFC3339()})
		if ttl, tErr := s.Redis.TTL(ctx, key).Result(); tErr == nil && ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, pErr := pipe.Exec(ctx); pErr != nil && s.Logger != nil {
			s.Logger.WithError(pErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	_ = s.indexUser(ctx, u)
	return u, nil
}

// BulkUserRow is one row of a bulk import batch.
type BulkUserRow struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        entity.Role `json:"role,omitempty"`
	Club        entity.Club `json:"club,omitempty"`
	CreditScore int         `json:"creditScore,omitempty"`
}

// BulkRowError reports one failed row; RowNumber is 1-based batch position.
type BulkRowError struct {
	RowNumber int         `json:"rowNumber"`
	Error     string      `json:"error"`
	Data      BulkUserRow `json:"data"`
}

type BulkImportResult struct {
	SuccessCount int            `json:"successCount"`
	FailedCount  int            `json:"failedCount"`
	Errors       []BulkRowError `json:"errors"`
}

// BulkImport validates and creates users row by row. Rows fail independently:
// an invalid row is recorded and the rest of the batch still runs. Regular
// admins may only add users to their own club; superadmins are unrestricted.
func (s *UserService) BulkImport(ctx context.Context, callerRole entity.Role, callerClub entity.Club, rows []BulkUserRow) (*BulkImportResult, error) {
	if len(rows) == 0 {
		return nil, domainerrors.ErrInvalidInput
	}

	adminClub := entity.ClubNone
	if callerRole == entity.RoleAdmin {
		adminClub = callerClub
	}

	res := &BulkImportResult{Errors: []BulkRowError{}}
	fail := func(rowNumber int, msg string, row BulkUserRow) {
		row.Password = "" // never echo passwords back
		res.FailedCount++
		res.Errors = append(res.Errors, BulkRowError{RowNumber: rowNumber, Error: msg, Data: row})
	}

	for i, row := range rows {
		rowNumber := i + 1

		if row.Name == "" || row.Email == "" || row.Password == "" {
			fail(rowNumber, "Missing required fields", row)
			continue
		}
		if !validation.ValidEmail(row.Email) {
			fail(rowNumber, "Invalid email format", row)
			continue
		}
		if row.Role != "" && !row.Role.Valid() {
			fail(rowNumber, "Invalid role", row)
			continue
		}
		if !row.Club.Valid() {
			fail(rowNumber, "Invalid club", row)
			continue
		}
		if row.CreditScore < 0 {
			fail(rowNumber, "Invalid credit score", row)
			continue
		}

		exists, err := s.Repo.ExistsByEmail(ctx, row.Email)
		if err != nil {
			fail(rowNumber, "Server error: "+err.Error(), row)
			continue
		}
		if exists {
			fail(rowNumber, "User with this email already exists", row)
			continue
		}

		if adminClub != entity.ClubNone && row.Club != entity.ClubNone && row.Club != adminClub {
			fail(rowNumber, fmt.Sprintf("As admin of %s, you can only add users to your club", adminClub), row)
			continue
		}

		hash, err := helpers.HashPassword(row.Password)
		if err != nil {
			fail(rowNumber, "Server error: "+err.Error(), row)
			continue
		}

		role := row.Role
		if role == "" {
			role = entity.RoleUser
		}
		club := row.Club
		if adminClub != entity.ClubNone {
			club = adminClub
		}

		u := &entity.User{
			Name:        row.Name,
			Email:       row.Email,
			Password:    hash,
			Role:        role,
			Club:        club,
			CreditScore: row.CreditScore,
		}
		if err := s.Repo.Create(ctx, u); err != nil {
			if err == domainerrors.ErrEmailTaken {
				fail(rowNumber, "User with this email already exists", row)
			} else {
				fail(rowNumber, "Server error: "+err.Error(), row)
			}
			continue
		}
		_ = s.indexUser(ctx, u)
		res.SuccessCount++
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"success": res.SuccessCount,
			"failed":  res.FailedCount,
		}).Info("bulk user import finished")
	}
	return res, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"role":         u.Role,
		"club":         u.Club,
		"credit_score": u.CreditScore,
		"updated_at":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on email, name and club.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name", "club"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
