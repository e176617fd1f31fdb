package addresses

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/nasir97177/erpnext-magento/internal/identity"
	"github.com/nasir97177/erpnext-magento/pkg/db/models"
	pkgerrors "github.com/nasir97177/erpnext-magento/pkg/errors"
	"github.com/nasir97177/erpnext-magento/pkg/logger"
	"github.com/nasir97177/erpnext-magento/pkg/magento"
)

const (
	TypeBilling  = "Billing"
	TypeShipping = "Shipping"
)

// Repository is the persistence surface for address reconciliation.
// Lookups return (nil, nil) when no row matches.
type Repository interface {
	FindByMagentoAddressID(ctx context.Context, magentoAddressID int64) (*models.Address, error)
	FindByNaturalKey(ctx context.Context, firstName, lastName, line1, pincode string) (*models.Address, error)
	Create(ctx context.Context, address *models.Address) error
	Update(ctx context.Context, address *models.Address) error
}

// Service reconciles storefront order addresses against ledger rows.
// Resolution is ordered: the storefront address id wins when present,
// then the (first name, last name, street line, pincode) natural key,
// then a fresh row is created. The natural key is the only handle for
// guest checkouts, which never carry an address id.
type Service struct {
	repo Repository
	logg *logger.Logger
}

func NewService(repo Repository, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("addresses repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{repo: repo, logg: logg}, nil
}

// Resolve returns the ledger address for one order address, creating it
// when neither key matches.
func (s *Service) Resolve(ctx context.Context, customer *models.Customer, addr *magento.OrderAddress, addressType string) (*models.Address, error) {
	if customer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer required for address resolution")
	}
	if addr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order has no %s address", addressType))
	}

	if addr.CustomerAddressID != nil && *addr.CustomerAddressID != 0 {
		found, err := s.repo.FindByMagentoAddressID(ctx, *addr.CustomerAddressID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up address by storefront id")
		}
		if found != nil {
			return found, nil
		}
	}

	found, err := s.repo.FindByNaturalKey(ctx, addr.Firstname, addr.Lastname, addr.Line1(), addr.Postcode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up address by natural key")
	}
	if found != nil {
		return found, nil
	}

	return s.create(ctx, customer, addr, addressType)
}

// SyncOrderAddresses refreshes the ledger copies of an account shopper's
// order addresses so later orders resolve against current data. Each
// address is upserted independently and the failures are aggregated.
func (s *Service) SyncOrderAddresses(ctx context.Context, customer *models.Customer, addrs []*magento.OrderAddress) error {
	var errs error
	for _, addr := range addrs {
		if addr == nil {
			continue
		}
		addressType := TypeBilling
		if addr.AddressType == "shipping" {
			addressType = TypeShipping
		}
		if err := s.upsert(ctx, customer, addr, addressType); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (s *Service) upsert(ctx context.Context, customer *models.Customer, addr *magento.OrderAddress, addressType string) error {
	if addr.CustomerAddressID != nil && *addr.CustomerAddressID != 0 {
		existing, err := s.repo.FindByMagentoAddressID(ctx, *addr.CustomerAddressID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up address by storefront id")
		}
		if existing != nil {
			applyPayload(existing, addr)
			if err := s.repo.Update(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating address")
			}
			return nil
		}
	}

	existing, err := s.repo.FindByNaturalKey(ctx, addr.Firstname, addr.Lastname, addr.Line1(), addr.Postcode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "looking up address by natural key")
	}
	if existing != nil {
		applyPayload(existing, addr)
		if err := s.repo.Update(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating address")
		}
		return nil
	}

	_, err = s.create(ctx, customer, addr, addressType)
	return err
}

func (s *Service) create(ctx context.Context, customer *models.Customer, addr *magento.OrderAddress, addressType string) (*models.Address, error) {
	row := &models.Address{
		Name:        identity.AddressName(customer.Name, addressType, addr.Line1()),
		CustomerID:  customer.ID,
		AddressType: addressType,
	}
	applyPayload(row, addr)

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating address")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"address": row.Name, "customer": customer.Name})
	s.logg.Info(logCtx, "created ledger address")
	return row, nil
}

func applyPayload(row *models.Address, addr *magento.OrderAddress) {
	if addr.CustomerAddressID != nil && *addr.CustomerAddressID != 0 {
		id := *addr.CustomerAddressID
		row.MagentoAddressID = &id
	}
	row.FirstName = addr.Firstname
	row.LastName = addr.Lastname
	row.AddressLine1 = addr.Line1()
	if len(addr.Street) > 1 {
		line2 := addr.Street[1]
		row.AddressLine2 = &line2
	}
	row.City = addr.City
	row.Pincode = addr.Postcode
	row.Country = addr.CountryID
	if addr.Telephone != "" {
		phone := addr.Telephone
		row.Phone = &phone
	}
}
