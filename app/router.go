package app

import (
	"context"
	"sync"
)

// Module is a unit of the application started by Start and stopped by Close.
type Module interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
	Close() error
}
