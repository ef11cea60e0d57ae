package repository

import (
	"fmt"

	"github.com/deppfellow/todo-backend/internal/config"
	"github.com/deppfellow/todo-backend/internal/server"
	"github.com/deppfellow/todo-backend/internal/store"
	"github.com/deppfellow/todo-backend/internal/store/gormstore"
	"github.com/deppfellow/todo-backend/internal/store/memstore"
	"github.com/deppfellow/todo-backend/internal/store/pgxstore"
)

// Repositories is a container for all repository instances and the store
// their sessions come from.
type Repositories struct {
	Store store.Store
	Todo  *TodoRepository
}

// NewRepositories picks the session store named by database.session.
//
// The orm and pgx stores need s.DB; memory runs without a database.
func NewRepositories(s *server.Server) (*Repositories, error) {
	st, err := newStore(s)
	if err != nil {
		return nil, err
	}

	s.Logger.Info().Str("session", st.Name()).Msg("todo store selected")

	return &Repositories{
		Store: st,
		Todo:  NewTodoRepository(),
	}, nil
}

func newStore(s *server.Server) (store.Store, error) {
	session := s.Config.Database.Session

	if session == config.SessionMemory {
		return memstore.New(), nil
	}
	if s.DB == nil {
		return nil, fmt.Errorf("session %q requires a database connection", session)
	}

	switch session {
	case config.SessionORM:
		return gormstore.New(s.DB.ORM), nil
	case config.SessionPgx:
		return pgxstore.New(s.DB.Pool), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", session)
	}
}
