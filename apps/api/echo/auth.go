package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/matokeo/core"
	"github.com/trezcool/matokeo/core/staff"
	"github.com/trezcool/matokeo/core/student"
)

// appJWTConfig is the default JWT auth middleware config.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "appToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
// Subject holds the student's hall ticket number or the teacher's email.
type Claims struct {
	jwt.StandardClaims
	Tenant    string `json:"tenant,omitempty"`
	Email     string `json:"email,omitempty"`
	IsStudent bool   `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsStaff   bool   `json:"is_staff,omitempty"`   // -> STAFF PORTAL
	Role      string `json:"role,omitempty"`       // TEACHER | HOD
}

func newStandardClaims(subject string) jwt.StandardClaims {
	now := time.Now()
	return jwt.StandardClaims{
		Issuer:    core.Conf.AppName,
		Subject:   subject,
		Audience:  "Academia",
		ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
		IssuedAt:  now.Unix(),
	}
}

func GetStudentClaims(stu student.Student, tnt string) *Claims {
	return &Claims{
		StandardClaims: newStandardClaims(stu.Htno),
		Tenant:         tnt,
		Email:          stu.Email,
		IsStudent:      true,
	}
}

func GetTeacherClaims(t staff.Teacher, tnt string) *Claims {
	return &Claims{
		StandardClaims: newStandardClaims(t.Email),
		Tenant:         tnt,
		Email:          t.Email,
		IsStaff:        true,
		Role:           t.Role,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
