package service

import (
	"errors"
	"fmt"

	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUnknownUser is returned by Login when the username does not exist.
	ErrUnknownUser = errors.New("username not found")
	// ErrInvalidPassword is returned by Login when the password does not match.
	ErrInvalidPassword = errors.New("invalid password")
)

// Store is the persistence surface the service needs.
// *repository.Repository satisfies it.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)
	ListArticles() ([]models.Article, error)
	GetArticle(id int) (*models.Article, error)
	CreateArticle(article *models.Article) error
	UpdateArticle(id int, article *models.Article) error
	DeleteArticle(id int) error
}

// Service handles business logic
type Service struct {
	store Store
	log   *logrus.Logger
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger) *Service {
	return &Service{store: store, log: log}
}

// Register creates a new user with hashed password
func (s *Service) Register(name, email, username, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user by username and password. The two failure modes
// are distinct so the login page can tell an unknown username from a wrong
// password, matching the site's historical behavior.
func (s *Service) Login(username, password string) (*models.User, error) {
	user, err := s.store.FindUserByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	s.log.Infof("User logged in: %s", user.Username)
	return user, nil
}

// ListArticles returns all articles in storage order.
func (s *Service) ListArticles() ([]models.Article, error) {
	return s.store.ListArticles()
}

// GetArticle retrieves a single article by id.
func (s *Service) GetArticle(id int) (*models.Article, error) {
	return s.store.GetArticle(id)
}

// CreateArticle inserts a new article authored by the session user.
func (s *Service) CreateArticle(article *models.Article, author string) error {
	article.Author = author
	if err := s.store.CreateArticle(article); err != nil {
		return err
	}
	s.log.Infof("Article created by %s: %q", author, article.Title)
	return nil
}

// UpdateArticle replaces the editable fields of the article matching id.
func (s *Service) UpdateArticle(id int, article *models.Article) error {
	if err := s.store.UpdateArticle(id, article); err != nil {
		return err
	}
	s.log.Infof("Article %d updated", id)
	return nil
}

// DeleteArticle removes the article matching id.
func (s *Service) DeleteArticle(id int) error {
	if err := s.store.DeleteArticle(id); err != nil {
		return err
	}
	s.log.Infof("Article %d deleted", id)
	return nil
}
