package bootstrap

import (
	"github.com/cindypham04/engrave/config"
	"github.com/cindypham04/engrave/services"
)

type Services struct {
	AnnotationService *services.AnnotationService
	ChatService       *services.ChatService
	FileService       *services.FileService
	Answerer          services.Answerer
}

func NewServices(cfg *config.Config, infra *Infrastructure, repos *Repositories) *Services {
	res := &Services{}

	answerer := services.NewAnswerAPI(cfg)
	res.Answerer = answerer

	annotationService := services.NewAnnotationService(
		repos.AnnotationRepository,
		repos.ThreadRepository,
		repos.MessageRepository,
		infra.Cache,
		infra.EventPublisher,
	)
	res.AnnotationService = annotationService

	chatService := services.NewChatService(
		repos.ThreadRepository,
		repos.MessageRepository,
		repos.AnnotationRepository,
		repos.FileRepository,
		infra.Cache,
		answerer,
		infra.EventPublisher,
	)
	res.ChatService = chatService

	fileService := services.NewFileService(
		cfg,
		repos.FileRepository,
		repos.ThreadRepository,
		repos.MessageRepository,
		repos.AnnotationRepository,
		infra.Storage,
		infra.Cache,
		infra.EventPublisher,
		chatService,
	)
	res.FileService = fileService

	return res
}
