package services

// ServiceContainer bundles every service facade for injection into the
// handler layer and the scheduler.
type ServiceContainer struct {
	User    UserSvcFacade
	Plan    PlanSvcFacade
	Lockin  LockinSvcFacade
	Accrual AccrualSvcFacade
	Wallet  WalletSvcFacade
	Profit  ProfitSvcFacade
}
