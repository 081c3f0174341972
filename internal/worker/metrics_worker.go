package worker

import (
	"github.com/lexpage/landing-service/internal/service"
)

// StartMetricsWorker registers the usage event handlers.
func StartMetricsWorker(recorder *service.MetricsRecorder) {
	if recorder == nil {
		return
	}
	recorder.RegisterHandlers()
}
