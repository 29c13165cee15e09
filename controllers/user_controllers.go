package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/comanda-app/comanda/domain"
	"github.com/comanda-app/comanda/middlewares"
	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/services"
	"github.com/comanda-app/comanda/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoPermission       = errors.New("You do not have permission")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserController struct {
	DB      *gorm.DB
	Catalog *services.CatalogService
}

func NewUserController(db *gorm.DB, catalog *services.CatalogService) *UserController {
	return &UserController{DB: db, Catalog: catalog}
}

type registerRequest struct {
	TenantSlug string `json:"tenant_slug"`
	TenantName string `json:"tenant_name"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Role       string `json:"role"`
}

// Register user baru. User pertama sebuah tenant selalu admin dan boleh
// mendaftar tanpa token (tenant dibuat kalau tenant_name dikirim); setelah
// itu hanya admin tenant yang sama.
func (uc *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()

	tenant := strings.ToLower(strings.TrimSpace(req.TenantSlug))
	if callerTenant := c.GetString(middlewares.CtxTenant); callerTenant != "" && tenant == "" {
		tenant = callerTenant
	}
	if tenant == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("tenant_slug required"))
		return
	}

	var users int64
	if err := uc.DB.WithContext(ctx).Model(&models.User{}).Where("tenant_slug = ?", tenant).Count(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if users == 0 {
		role = middlewares.RoleAdmin
		if err := uc.ensureTenant(c, tenant, req.TenantName); err != nil {
			respondErr(c, err)
			return
		}
	} else {
		if c.GetString(middlewares.CtxRole) != middlewares.RoleAdmin || c.GetString(middlewares.CtxTenant) != tenant {
			utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
			return
		}
		if !middlewares.ValidRole(role) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be admin, staff or chef"))
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	user := models.User{
		ID:         uuid.NewString(),
		TenantSlug: tenant,
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   string(hashed),
		Role:       role,
	}
	if err := uc.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, ErrEmailTaken)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("tenant", tenant).Infof("New user registered: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user_id": user.ID,
		"role":    user.Role,
	})
}

func (uc *UserController) ensureTenant(c *gin.Context, slug, name string) error {
	_, err := uc.Catalog.Tenant(c.Request.Context(), slug)
	if !errors.Is(err, services.ErrTenantNotFound) {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return err
	}
	_, err = uc.Catalog.CreateTenant(c.Request.Context(), domain.Tenant{Slug: slug, Name: name, IsOpen: true})
	return err
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := uc.DB.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role, user.TenantSlug)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.WithField("tenant", user.TenantSlug).Infof("Login successful for user: %s", user.Email)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":       token,
		"user_role":   user.Role,
		"tenant_slug": user.TenantSlug,
	})
}

// Logout -> token masuk blacklist sampai kadaluarsa
func (uc *UserController) Logout(c *gin.Context) {
	utils.BlacklistToken(c.GetString(middlewares.CtxToken))
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> memeriksa user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	var user models.User
	err := uc.DB.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_slug = ?", c.GetString(middlewares.CtxUserID), tenantOf(c)).
		First(&user).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.WithContext(c.Request.Context()).Where("tenant_slug = ?", tenantOf(c)).Order("name").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}
