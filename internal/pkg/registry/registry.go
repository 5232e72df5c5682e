package registry

import (
	"sort"

	"destiny_billing/internal/gateway/toss"
	"destiny_billing/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ModuleContext carries the shared dependencies each module wires up from.
type ModuleContext struct {
	Cfg     *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Router  *gin.Engine
	Gateway *toss.Client
}

// Module is a self-contained feature area that registers its own routes.
type Module interface {
	// Name returns the module name.
	Name() string

	// Init performs dependency injection and route registration.
	Init(ctx *ModuleContext) error

	// Priority orders initialization; lower runs first.
	Priority() int
}

var moduleRegistry = make(map[string]Module)

// Register adds a module to the registry. Called from module init functions.
func Register(module Module) {
	moduleRegistry[module.Name()] = module
}

// InitModules initializes all registered modules in priority order.
func InitModules(ctx *ModuleContext) error {
	modules := make([]Module, 0, len(moduleRegistry))
	for _, m := range moduleRegistry {
		modules = append(modules, m)
	}

	sort.Slice(modules, func(i, j int) bool {
		return modules[i].Priority() < modules[j].Priority()
	})

	for _, module := range modules {
		if err := module.Init(ctx); err != nil {
			return err
		}
	}

	return nil
}
