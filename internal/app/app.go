package app

import (
	"log/slog"

	"github.com/trebuchet-org/fundme/internal/adapters/blockchain"
	"github.com/trebuchet-org/fundme/internal/domain/config"
	"github.com/trebuchet-org/fundme/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	RunDeployments   *usecase.RunDeployments
	VerifyDeployment *usecase.VerifyDeployment
	InteractFundMe   *usecase.InteractFundMe
	ShowDeployment   *usecase.ShowDeployment
	ListDeployments  *usecase.ListDeployments
	ListNetworks     *usecase.ListNetworks
	ManageAnvil      *usecase.ManageAnvil

	// Adapters (needed for special cases like log streaming)
	AnvilManager usecase.AnvilManager

	clients *blockchain.ClientPool
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	progress usecase.ProgressSink,
	runDeployments *usecase.RunDeployments,
	verifyDeployment *usecase.VerifyDeployment,
	interactFundMe *usecase.InteractFundMe,
	showDeployment *usecase.ShowDeployment,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	manageAnvil *usecase.ManageAnvil,
	anvilManager usecase.AnvilManager,
	clients *blockchain.ClientPool,
) *App {
	return &App{
		Config:           cfg,
		Log:              log,
		Progress:         progress,
		RunDeployments:   runDeployments,
		VerifyDeployment: verifyDeployment,
		InteractFundMe:   interactFundMe,
		ShowDeployment:   showDeployment,
		ListDeployments:  listDeployments,
		ListNetworks:     listNetworks,
		ManageAnvil:      manageAnvil,
		AnvilManager:     anvilManager,
		clients:          clients,
	}
}

// Close releases the node connections opened during the command
func (a *App) Close() {
	if a.clients != nil {
		a.clients.Close()
	}
}
