package database

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

type Database struct {
	conn           Conn
	categoryRepo   *CategoryRepo
	projectRepo    *ProjectRepo
	newsRepo       *NewsRepo
	tagRepo        *TagRepo
	chainRepo      *ChainRepo
	userRepo       *UserRepo
	bookmarkRepo   *BookmarkRepo
	submissionRepo *SubmissionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB, queryTimeout time.Duration) Database {
	return newDatabase(NewConn(db, queryTimeout), &singleflight.Group{})
}

func newDatabase(conn Conn, loads *singleflight.Group) Database {
	categoryRepo := NewCategoryRepo(conn, loads)
	newsRepo := NewNewsRepo(conn)
	bookmarkRepo := NewBookmarkRepo(conn)

	return Database{
		conn:           conn,
		categoryRepo:   categoryRepo,
		projectRepo:    NewProjectRepo(conn, categoryRepo, bookmarkRepo, newsRepo),
		newsRepo:       newsRepo,
		tagRepo:        NewTagRepo(conn),
		chainRepo:      NewChainRepo(conn),
		userRepo:       NewUserRepo(conn),
		bookmarkRepo:   bookmarkRepo,
		submissionRepo: NewSubmissionRepo(conn),
	}
}

// Transaction runs fn with a Database whose repositories all share one
// transaction. Nothing fn writes is visible unless it returns nil. Loads inside
// the transaction are never collapsed with loads outside it.
func (d Database) Transaction(ctx context.Context, fn func(tx Database) error) error {
	return d.conn.Transaction(ctx, func(tx Conn) error {
		return fn(newDatabase(tx, &singleflight.Group{}))
	})
}

// Accessor methods for each repository

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) NewsRepo() *NewsRepo {
	return d.newsRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) ChainRepo() *ChainRepo {
	return d.chainRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) BookmarkRepo() *BookmarkRepo {
	return d.bookmarkRepo
}

func (d Database) SubmissionRepo() *SubmissionRepo {
	return d.submissionRepo
}
