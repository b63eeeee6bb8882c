//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/fundme/internal/adapters"
	"github.com/trebuchet-org/fundme/internal/config"
	"github.com/trebuchet-org/fundme/internal/logging"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,

		// Logging
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployMocks,
		usecase.NewDeployFundMe,
		usecase.NewRunDeployments,
		usecase.NewVerifyDeployment,
		usecase.NewInteractFundMe,
		usecase.NewShowDeployment,
		usecase.NewListDeployments,
		usecase.NewListNetworks,
		usecase.NewManageAnvil,
		usecase.NewPriceFeedResolver,

		// App
		NewApp,
	)
	return nil, nil
}
