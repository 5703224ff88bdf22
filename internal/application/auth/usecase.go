package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-sync/internal/domain"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
	"github.com/jhoicas/tienda-sync/pkg/config"
	"github.com/jhoicas/tienda-sync/pkg/jwt"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// SetupInput datos del setup inicial de un terminal admin.
type SetupInput struct {
	ShopName          string
	SyncKey           string
	AdminWhatsApp     string
	WhatsAppGroupLink string
	AdminName         string
	AdminPIN          string
}

// LoginResult sesión emitida tras un login correcto.
type LoginResult struct {
	Token string
	Staff *entity.Staff
}

// UseCase casos de uso de sesión y empleados del terminal.
type UseCase struct {
	staffRepo    repository.StaffRepository
	settingsRepo repository.SettingsRepository
	jwtCfg       config.JWTConfig
	log          *logger.Logger
}

// NewUseCase construye el caso de uso de autenticación.
func NewUseCase(staffRepo repository.StaffRepository, settingsRepo repository.SettingsRepository, jwtCfg config.JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{staffRepo: staffRepo, settingsRepo: settingsRepo, jwtCfg: jwtCfg, log: log}
}

// SetupShop configura el terminal como admin de una tienda nueva y da de alta
// al dueño como empleado admin. Solo corre una vez: un terminal ya configurado
// rechaza el setup.
func (uc *UseCase) SetupShop(_ context.Context, in SetupInput) error {
	if in.ShopName == "" || in.SyncKey == "" || in.AdminName == "" || in.AdminPIN == "" {
		return domain.ErrInvalidInput
	}

	existing, err := uc.settingsRepo.Get()
	if err != nil {
		return err
	}
	if existing != nil && existing.SetupComplete {
		return fmt.Errorf("el terminal ya está configurado: %w", domain.ErrInvalidInput)
	}

	if err := uc.settingsRepo.Save(&entity.Settings{
		ShopName:          in.ShopName,
		SyncKey:           in.SyncKey,
		TerminalRole:      entity.TerminalAdmin,
		AdminWhatsApp:     in.AdminWhatsApp,
		WhatsAppGroupLink: in.WhatsAppGroupLink,
		SetupComplete:     true,
		LicenseActive:     true,
	}); err != nil {
		return fmt.Errorf("configurar tienda: %w", err)
	}

	if _, err := uc.RegisterStaff(context.Background(), in.AdminName, in.AdminPIN, entity.RoleAdmin); err != nil {
		return err
	}

	uc.log.Info().Str("shop", in.ShopName).Msg("tienda configurada como terminal admin")
	return nil
}

// Login valida nombre y PIN contra el registro local de empleados y emite una
// sesión JWT con el rol embebido.
func (uc *UseCase) Login(_ context.Context, name, pin string) (*LoginResult, error) {
	if name == "" || pin == "" {
		return nil, domain.ErrInvalidInput
	}

	staff, err := uc.staffRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PINHash), []byte(pin)); err != nil {
		uc.log.Warn().Str("staff", name).Msg("intento de login con PIN incorrecto")
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, staff.ID, staff.Name, staff.Role,
		uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, fmt.Errorf("emitir sesión: %w", err)
	}

	uc.log.Info().Str("staff", staff.Name).Str("role", staff.Role).Msg("sesión iniciada")
	return &LoginResult{Token: token, Staff: staff}, nil
}

// RegisterStaff da de alta un empleado con su PIN hasheado. El nombre es la
// identidad dentro del terminal, por eso no se admiten duplicados.
func (uc *UseCase) RegisterStaff(_ context.Context, name, pin, role string) (*entity.Staff, error) {
	if name == "" || len(pin) < 4 {
		return nil, domain.ErrInvalidInput
	}
	switch role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleStaff:
	default:
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.staffRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrStaffAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashear pin: %w", err)
	}

	staff := &entity.Staff{
		ID:        uuid.New().String(),
		Name:      name,
		PINHash:   string(hash),
		Role:      role,
		CreatedAt: time.Now(),
	}
	if err := uc.staffRepo.Create(staff); err != nil {
		return nil, fmt.Errorf("registrar empleado: %w", err)
	}

	uc.log.Info().Str("staff", name).Str("role", role).Msg("empleado registrado")
	return staff, nil
}

// ListStaff lista los empleados del terminal.
func (uc *UseCase) ListStaff(_ context.Context) ([]*entity.Staff, error) {
	return uc.staffRepo.List()
}

// RemoveStaff elimina un empleado.
func (uc *UseCase) RemoveStaff(_ context.Context, id string) error {
	staff, err := uc.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if staff == nil {
		return domain.ErrStaffNotFound
	}
	return uc.staffRepo.Delete(id)
}

// Settings devuelve la configuración del terminal (nil si falta el setup).
func (uc *UseCase) Settings(_ context.Context) (*entity.Settings, error) {
	return uc.settingsRepo.Get()
}
