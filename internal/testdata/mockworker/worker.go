package mockworker

import (
	"github.com/stretchr/testify/mock"

	"customer-analytics-buddy/internal/model"
	"customer-analytics-buddy/internal/service"
)

type Worker struct {
	mock.Mock
}

// Interface compliance check
var _ service.UsageWorker = &Worker{}

func (m *Worker) Enqueue(event model.UsageEvent) {
	m.Called(event)
}

func (m *Worker) Shutdown() {
	m.Called()
}
