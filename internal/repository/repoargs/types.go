package repoargs

type RepositoryName string

const (
	CustomerRepoName RepositoryName = "customer"
	CartRepoName     RepositoryName = "cart"
	OrderRepoName    RepositoryName = "order"
	PaymentRepoName  RepositoryName = "payment"
	WalletRepoName   RepositoryName = "wallet"
)
