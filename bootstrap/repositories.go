package bootstrap

import (
	"github.com/cindypham04/engrave/platform/database"
	"github.com/cindypham04/engrave/repository"
)

type Repositories struct {
	FileRepository       repository.FileRepository
	ThreadRepository     repository.ThreadRepository
	MessageRepository    repository.MessageRepository
	AnnotationRepository repository.AnnotationRepository
}

func NewRepositories(db *database.DB) *Repositories {
	sqlDB := db.GetDatabase()
	return &Repositories{
		FileRepository:       repository.NewFileRepository(sqlDB),
		ThreadRepository:     repository.NewThreadRepository(sqlDB),
		MessageRepository:    repository.NewMessageRepository(sqlDB),
		AnnotationRepository: repository.NewAnnotationRepository(sqlDB),
	}
}
