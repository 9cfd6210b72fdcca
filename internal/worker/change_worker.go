package worker

import (
	"github.com/orgwise/orgchart-service/internal/service"
)

// StartChangeWorker registers the org change handlers.
func StartChangeWorker(listener *service.ChangeListener) {
	if listener == nil {
		return
	}
	listener.RegisterHandlers()
}
