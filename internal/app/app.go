package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-food/internal/repository/repoargs"

	"github.com/fsdevblog/groph-food/internal/transport/vnpay"

	"github.com/fsdevblog/groph-food/pkg/uow"

	"github.com/fsdevblog/groph-food/internal/config"
	"github.com/fsdevblog/groph-food/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-food/internal/service"
	"github.com/fsdevblog/groph-food/internal/transport/api"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	"os/signal"
	"syscall"

	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	loc, locErr := time.LoadLocation(a.Config.BusinessTimezone)
	if locErr != nil {
		return fmt.Errorf("app run: %s", locErr.Error())
	}

	gateway := vnpay.New(vnpay.Config{
		BaseURL:    a.Config.VNPayURL,
		TmnCode:    a.Config.VNPayTmnCode,
		HashSecret: a.Config.VNPayHashSecret,
		ReturnURL:  a.Config.VNPayReturnURL,
	}, loc)

	services, sErr := service.Factory(unitOfWork, gateway, loc)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:          a.Logger,
		CartService:     services.CartService,
		CheckoutService: services.CheckoutService,
		OrderService:    services.OrderService,
		WalletService:   services.WalletService,
		TierService:     services.TierService,
		ReportService:   services.ReportService,
		JWTSecretKey:    []byte(a.Config.JWTSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.CustomerRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCustomerRepository(dbtx)
		},
		repoargs.CartRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewCartRepository(dbtx)
		},
		repoargs.OrderRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewOrderRepository(dbtx)
		},
		repoargs.PaymentRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPaymentRepository(dbtx)
		},
		repoargs.WalletRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewWalletRepository(dbtx)
		},
	}

	for name, factory := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factory); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
