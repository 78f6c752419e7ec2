package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/LucasNeuro/fta-form-sub000/internal/repository"
)

type userRepository struct {
	db *sqlx.DB
}

type teamRepository struct {
	db *sqlx.DB
}

type planRepository struct {
	db *sqlx.DB
}

type operatorRepository struct {
	db *sqlx.DB
}

type annotationRepository struct {
	db *sqlx.DB
}

type invoiceRepository struct {
	db *sqlx.DB
}

type accessLinkRepository struct {
	db *sqlx.DB
}

type registrationLinkRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewTeamRepository(db *sqlx.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

func NewPlanRepository(db *sqlx.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func NewOperatorRepository(db *sqlx.DB) repository.OperatorRepository {
	return &operatorRepository{db: db}
}

func NewAnnotationRepository(db *sqlx.DB) repository.AnnotationRepository {
	return &annotationRepository{db: db}
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func NewAccessLinkRepository(db *sqlx.DB) repository.AccessLinkRepository {
	return &accessLinkRepository{db: db}
}

func NewRegistrationLinkRepository(db *sqlx.DB) repository.RegistrationLinkRepository {
	return &registrationLinkRepository{db: db}
}
