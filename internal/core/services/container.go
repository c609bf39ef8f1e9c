package services

import (
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/platform/email"
)

// Repositories bundles every repository needed to build the service layer.
type Repositories struct {
	User   portsrepo.UserRepository
	Plan   portsrepo.PlanRepository
	Lockin portsrepo.LockinRepository
	Wallet portsrepo.WalletRepository
	Profit portsrepo.ProfitRepository
}

// NewServiceContainer wires all services from their repositories.
func NewServiceContainer(repos Repositories, notifier email.Sender) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:    NewUserService(repos.User),
		Plan:    NewPlanService(repos.Plan, repos.Lockin),
		Lockin:  NewLockinService(repos.Lockin, repos.Plan, repos.Wallet, repos.User),
		Accrual: NewAccrualService(repos.Lockin, repos.User, notifier),
		Wallet:  NewWalletService(repos.Wallet, repos.User),
		Profit:  NewProfitService(repos.Profit, repos.Lockin, repos.User),
	}
}
