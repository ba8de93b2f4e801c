package http

import (
	"barberq/backend/internal/service/scheduling"
	"barberq/backend/internal/store/memory"
)

func newMemoryService() *scheduling.Service {
	mem := memory.New()
	return scheduling.NewService(mem, mem, mem, scheduling.WithLogger(discardLogger()))
}
