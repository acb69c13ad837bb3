package unitofwork

import "gorm.io/gorm"

// RepositoryFactory opens short-lived units of work, typically one per
// batch operation.
type RepositoryFactory interface {
	NewUnitOfWork() UnitOfWork
}

type repositoryFactory struct {
	db *gorm.DB
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &repositoryFactory{db: db}
}

func (f *repositoryFactory) NewUnitOfWork() UnitOfWork {
	return NewUnitOfWork(f.db)
}
