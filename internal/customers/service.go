package customers

import (
	"context"
	"fmt"

	"github.com/nasir97177/erpnext-magento/internal/identity"
	"github.com/nasir97177/erpnext-magento/pkg/config"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

// guestDetails marks rows provisioned from guest checkouts.
const guestDetails = "Magento Guest"

// Repository is the persistence surface the provisioner needs. Lookups
// return (nil, nil) when no row matches.
type Repository interface {
	FindByMagentoCustomerID(ctx context.Context, magentoCustomerID int64) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByName(ctx context.Context, name string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
}

// Service resolves the ledger customer behind a storefront order,
// creating guest customers on first sight. Registered shoppers must
// already exist on the ledger side; the customer sync owns those rows.
type Service struct {
	repo Repository
	logg *logger.Logger
	cfg  config.SyncConfig
}

func NewService(repo Repository, logg *logger.Logger, cfg config.SyncConfig) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, logg: logg, cfg: cfg}, nil
}

// Ensure returns the ledger customer for the order's identity key.
func (s *Service) Ensure(ctx context.Context, order magento.Order) (*models.Customer, error) {
	key, err := identity.KeyFromOrder(order)
	if err != nil {
		return nil, err
	}

	if key.Kind == identity.KindGuest {
		return s.ensureGuest(ctx, key, order)
	}
	return s.findAccount(ctx, key)
}

func (s *Service) findAccount(ctx context.Context, key identity.Key) (*models.Customer, error) {
	customer, err := s.repo.FindByMagentoCustomerID(ctx, key.CustomerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up account customer")
	}
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound,
			fmt.Sprintf("no ledger customer for storefront customer %d", key.CustomerID))
	}
	return customer, nil
}

// ensureGuest upserts the guest row keyed by email. Repeated guest
// orders from the same email refresh the name fields in place.
func (s *Service) ensureGuest(ctx context.Context, key identity.Key, order magento.Order) (*models.Customer, error) {
	existing, err := s.repo.FindByEmail(ctx, key.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up guest customer")
	}

	if existing != nil {
		existing.FirstName = order.CustomerFirstname
		existing.LastName = order.CustomerLastname
		existing.CustomerGroup = s.cfg.CustomerGroup
		existing.Territory = s.cfg.Territory
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating guest customer")
		}
		return existing, nil
	}

	name, err := s.availableName(ctx, key, order)
	if err != nil {
		return nil, err
	}

	details := guestDetails
	email := key.Email
	customer := &models.Customer{
		Name:                 name,
		MagentoCustomerEmail: &email,
		FirstName:            order.CustomerFirstname,
		LastName:             order.CustomerLastname,
		CustomerGroup:        s.cfg.CustomerGroup,
		Territory:            s.cfg.Territory,
		CustomerType:         "Individual",
		Details:              &details,
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating guest customer")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"customer": customer.Name, "email": key.Email})
	s.logg.Info(logCtx, "provisioned guest customer")
	return customer, nil
}

// availableName keeps the display name when it is free and falls back to
// a name qualified with the email when another shopper already holds it.
func (s *Service) availableName(ctx context.Context, key identity.Key, order magento.Order) (string, error) {
	display := identity.DisplayName(order.CustomerFirstname, order.CustomerLastname)
	if display == "" {
		display = key.Email
	}

	taken, err := s.repo.FindByName(ctx, display)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking customer name")
	}
	if taken == nil {
		return display, nil
	}
	return fmt.Sprintf("%s (%s)", display, key.Email), nil
}
