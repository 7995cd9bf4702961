package bootstrap

import "github.com/cindypham04/engrave/handlers"

type Handlers struct {
	AnnotationHandler *handlers.AnnotationHandler
	ChatHandler       *handlers.ChatHandler
	FileHandler       *handlers.FileHandler
	WSHandler         *handlers.WSHandler
}

func NewHandlers(services *Services, infra *Infrastructure) *Handlers {
	res := &Handlers{}
	res.AnnotationHandler = handlers.NewAnnotationHandler(services.AnnotationService)
	res.ChatHandler = handlers.NewChatHandler(services.ChatService)
	res.FileHandler = handlers.NewFileHandler(services.FileService)
	res.WSHandler = handlers.NewWSHandler(infra.EventPublisher)
	return res
}
