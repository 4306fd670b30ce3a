package service

import (
	"context"
	"errors"
	"strings"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MasterDataService manages warehouses, customers and suppliers.
type MasterDataService interface {
	CreateWarehouse(ctx context.Context, req *WarehouseRequest, actor Actor) (*model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, req *WarehouseRequest, actor Actor) (*model.Warehouse, error)
	SetDefaultWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID, actor Actor) error
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)

	CreateCustomer(ctx context.Context, req *CustomerRequest, actor Actor) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest, actor Actor) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID, actor Actor) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context, search string, page repository.Page) ([]model.Customer, int64, error)

	CreateSupplier(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID, actor Actor) error
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, search string, page repository.Page) ([]model.Supplier, int64, error)
}

type WarehouseRequest struct {
	Code    string `json:"code" validate:"required,not_blank,max=30"`
	Name    string `json:"name" validate:"required,not_blank,max=255"`
	Address string `json:"address"`
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,not_blank,max=255"`
	Phone   string `json:"phone" validate:"max=30"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

type SupplierRequest struct {
	Name          string `json:"name" validate:"required,not_blank,max=255"`
	Phone         string `json:"phone" validate:"max=30"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
}

type masterDataService struct {
	warehouseRepo repository.WarehouseRepository
	stockRepo     repository.StockRepository
	customerRepo  repository.CustomerRepository
	supplierRepo  repository.SupplierRepository
	log           *zap.Logger
}

func NewMasterDataService(
	warehouseRepo repository.WarehouseRepository,
	stockRepo repository.StockRepository,
	customerRepo repository.CustomerRepository,
	supplierRepo repository.SupplierRepository,
	log *zap.Logger,
) MasterDataService {
	if log == nil {
		log = zap.NewNop()
	}
	return &masterDataService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
		customerRepo:  customerRepo,
		supplierRepo:  supplierRepo,
		log:           log.Named("masterdata"),
	}
}

// CreateWarehouse adds a warehouse. The first warehouse becomes the default.
func (s *masterDataService) CreateWarehouse(ctx context.Context, req *WarehouseRequest, actor Actor) (*model.Warehouse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if _, err := s.warehouseRepo.FindByCode(ctx, code); err == nil {
		return nil, ErrDuplicateCode
	}
	n, err := s.warehouseRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	w := &model.Warehouse{
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		Address:   req.Address,
		IsDefault: n == 0,
	}
	w.CreatedBy = actor.ID
	w.UpdatedBy = actor.ID
	if err := s.warehouseRepo.Create(ctx, w); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}
	s.log.Info("warehouse created", zap.String("code", w.Code), zap.Bool("default", w.IsDefault))
	return w, nil
}

func (s *masterDataService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req *WarehouseRequest, actor Actor) (*model.Warehouse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrWarehouseNotFound)
	}
	w.Name = strings.TrimSpace(req.Name)
	w.Address = req.Address
	w.UpdatedBy = actor.ID
	if err := s.warehouseRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *masterDataService) SetDefaultWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, ErrWarehouseNotFound)
	}
	if err := s.warehouseRepo.SetDefault(ctx, id); err != nil {
		return nil, err
	}
	return s.warehouseRepo.FindByID(ctx, id)
}

// DeleteWarehouse removes an empty warehouse. Deleting the default promotes
// the oldest remaining warehouse.
func (s *masterDataService) DeleteWarehouse(ctx context.Context, id uuid.UUID, actor Actor) error {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrWarehouseNotFound)
	}
	held, err := s.stockRepo.SumByWarehouse(ctx, id)
	if err != nil {
		return err
	}
	if held > 0 {
		return ErrWarehouseNotEmpty
	}
	if err := s.warehouseRepo.Delete(ctx, id, actor.ID); err != nil {
		return notFound(err, ErrWarehouseNotFound)
	}

	if w.IsDefault {
		next, err := s.warehouseRepo.FindDefault(ctx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.warehouseRepo.SetDefault(ctx, next.ID); err != nil {
			return err
		}
	}
	s.log.Info("warehouse deleted", zap.String("code", w.Code), zap.String("actor", actor.label()))
	return nil
}

func (s *masterDataService) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.warehouseRepo.FindAll(ctx)
}

func (s *masterDataService) CreateCustomer(ctx context.Context, req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c := &model.Customer{}
	applyCustomerRequest(c, req)
	c.CreatedBy = actor.ID
	c.UpdatedBy = actor.ID
	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *masterDataService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *CustomerRequest, actor Actor) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCustomerRequest(c, req)
	c.UpdatedBy = actor.ID
	if err := s.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *masterDataService) DeleteCustomer(ctx context.Context, id uuid.UUID, actor Actor) error {
	return notFound(s.customerRepo.Delete(ctx, id, actor.ID), ErrCustomerNotFound)
}

func (s *masterDataService) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrCustomerNotFound)
	}
	return c, nil
}

func (s *masterDataService) ListCustomers(ctx context.Context, search string, page repository.Page) ([]model.Customer, int64, error) {
	return s.customerRepo.List(ctx, search, page)
}

func (s *masterDataService) CreateSupplier(ctx context.Context, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup := &model.Supplier{}
	applySupplierRequest(sup, req)
	sup.CreatedBy = actor.ID
	sup.UpdatedBy = actor.ID
	if err := s.supplierRepo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *masterDataService) UpdateSupplier(ctx context.Context, id uuid.UUID, req *SupplierRequest, actor Actor) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sup, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	applySupplierRequest(sup, req)
	sup.UpdatedBy = actor.ID
	if err := s.supplierRepo.Update(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *masterDataService) DeleteSupplier(ctx context.Context, id uuid.UUID, actor Actor) error {
	return notFound(s.supplierRepo.Delete(ctx, id, actor.ID), ErrSupplierNotFound)
}

func (s *masterDataService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}
	return sup, nil
}

func (s *masterDataService) ListSuppliers(ctx context.Context, search string, page repository.Page) ([]model.Supplier, int64, error) {
	return s.supplierRepo.List(ctx, search, page)
}

func applyCustomerRequest(c *model.Customer, req *CustomerRequest) {
	c.Name = strings.TrimSpace(req.Name)
	c.Phone = strings.TrimSpace(req.Phone)
	c.Email = strings.TrimSpace(req.Email)
	c.Address = req.Address
}

func applySupplierRequest(s *model.Supplier, req *SupplierRequest) {
	s.Name = strings.TrimSpace(req.Name)
	s.Phone = strings.TrimSpace(req.Phone)
	s.Email = strings.TrimSpace(req.Email)
	s.Address = req.Address
	s.ContactPerson = strings.TrimSpace(req.ContactPerson)
}
