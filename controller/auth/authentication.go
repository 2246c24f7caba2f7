package auth

import (
	"context"
	"net/http"
	"strings"

	"disasterprep/controller"
	"disasterprep/domain"
	"disasterprep/dto"
	"disasterprep/middleware"
	"disasterprep/model"
	"disasterprep/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func AuthController(router *gin.Engine, users *repository.UserRepository, tm *middleware.TokenManager) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, users, tm)
		})
		routes.POST("/signup", func(c *gin.Context) {
			Signup(c, users, tm)
		})
		routes.POST("/newaccesstoken", tm.RefreshTokenMiddleware(), func(c *gin.Context) {
			NewAccessToken(c, users, tm)
		})
	}
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

func issueTokens(u *model.User, tm *middleware.TokenManager) (*dto.AuthResponse, error) {
	accessToken, err := tm.CreateAccessToken(u)
	if err != nil {
		return nil, err
	}
	refreshToken, err := tm.CreateRefreshToken(u.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{AccessToken: accessToken, RefreshToken: refreshToken, User: u}, nil
}

func Signin(c *gin.Context, users *repository.UserRepository, tm *middleware.TokenManager) {
	var request dto.SigninRequest
	if !controller.BindJSON(c, &request) {
		return
	}

	user, err := users.FindByEmail(c, request.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		controller.RespondError(c, err)
		return
	}
	if !CheckPassword(user.HashedPassword, request.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	tokens, err := issueTokens(user, tm)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func Signup(c *gin.Context, users *repository.UserRepository, tm *middleware.TokenManager) {
	var request dto.SignupRequest
	if !controller.BindJSON(c, &request) {
		return
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		controller.RespondError(c, domain.Validation("name is required"))
		return
	}

	hashedPassword, err := HashPassword(request.Password)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	user := &model.User{
		Email:          request.Email,
		Name:           name,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser,
		IsActive:       true,
	}
	if err := users.Create(c, user); err != nil {
		controller.RespondError(c, err)
		return
	}

	tokens, err := issueTokens(user, tm)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokens)
}

func NewAccessToken(c *gin.Context, users *repository.UserRepository, tm *middleware.TokenManager) {
	user, err := users.FindByID(c, middleware.UserID(c))
	if err != nil {
		if domain.IsNotFound(err) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}
		controller.RespondError(c, err)
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
		return
	}

	accessToken, err := tm.CreateAccessToken(user)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// BootstrapAdmin creates the configured admin account when no user holds
// that email yet. An existing account is left untouched.
func BootstrapAdmin(ctx context.Context, users *repository.UserRepository, email, password string, logger *zap.Logger) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	admin := &model.User{Email: email, Name: "admin", HashedPassword: hashed, Role: model.RoleAdmin, IsActive: true}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", zap.String("email", admin.Email), zap.Uint("user_id", admin.UserID))
	return nil
}
