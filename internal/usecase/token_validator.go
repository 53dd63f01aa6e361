package usecase

import (
	"rental-engine/internal/domain/user"
	"rental-engine/internal/pkg/jwt"
	"rental-engine/internal/usecase/queries"
)

// TokenValidator turns a bearer token into the caller it was issued to.
type TokenValidator interface {
	ValidateToken(tokenString string) (queries.Actor, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (queries.Actor, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return queries.Actor{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return queries.Actor{}, err
	}

	return queries.Actor{ID: claims.UserID, Role: role}, nil
}
