package authutils

import (
	"idea-portal-backend/config"
	"idea-portal-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func GetToken(corporateID, name string, role models.UserRole) (tokenString string, err error) {
	ttl := time.Second * time.Duration(config.Conf.Auth.JWTExpireInSec)
	return NewToken(config.Conf.Auth.JWTSecret, ttl, corporateID, name, role)
}

func NewToken(secret string, ttl time.Duration, corporateID, name string, role models.UserRole) (string, error) {
	claims := jwt.MapClaims{
		"name":  name,
		"sub":   corporateID,
		"admin": role.IsAdmin(),
		"role":  string(role),
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetCorporateID(ctx *fiber.Ctx) string {
	sub, _ := GetClaims(ctx)["sub"].(string)
	return sub
}

func GetName(ctx *fiber.Ctx) string {
	name, _ := GetClaims(ctx)["name"].(string)
	return name
}

func GetRole(ctx *fiber.Ctx) models.UserRole {
	role, _ := GetClaims(ctx)["role"].(string)
	return models.UserRole(role)
}
