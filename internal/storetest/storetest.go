// Package storetest provides an in-memory stand-in for the database-backed
// repository, used by the service and handler tests.
package storetest

import (
	"github.com/Dan9191/blog-service/internal/models"
	"github.com/Dan9191/blog-service/internal/repository"
)

// MemStore keeps users and articles in maps, honoring the repository's
// sentinel errors. Users and Articles are exported so tests can seed and
// inspect state directly.
type MemStore struct {
	Users    map[string]*models.User
	Articles map[int]*models.Article
	nextID   int
}

// New returns an empty MemStore.
func New() *MemStore {
	return &MemStore{
		Users:    make(map[string]*models.User),
		Articles: make(map[int]*models.Article),
		nextID:   1,
	}
}

func (m *MemStore) CreateUser(user *models.User) error {
	if _, ok := m.Users[user.Username]; ok {
		return repository.ErrDuplicate
	}
	user.ID = m.nextID
	m.nextID++
	m.Users[user.Username] = user
	return nil
}

func (m *MemStore) FindUserByUsername(username string) (*models.User, error) {
	user, ok := m.Users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (m *MemStore) ListArticles() ([]models.Article, error) {
	var out []models.Article
	for _, a := range m.Articles {
		out = append(out, *a)
	}
	return out, nil
}

func (m *MemStore) GetArticle(id int) (*models.Article, error) {
	a, ok := m.Articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *MemStore) CreateArticle(article *models.Article) error {
	article.ID = m.nextID
	m.nextID++
	copied := *article
	m.Articles[copied.ID] = &copied
	return nil
}

func (m *MemStore) UpdateArticle(id int, article *models.Article) error {
	existing, ok := m.Articles[id]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = article.Title
	existing.TitleUK = article.TitleUK
	existing.Body = article.Body
	existing.BodyUK = article.BodyUK
	return nil
}

func (m *MemStore) DeleteArticle(id int) error {
	if _, ok := m.Articles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.Articles, id)
	return nil
}
