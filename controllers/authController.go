package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"fixit-be/models"
	"fixit-be/services"
	authUtils "fixit-be/utils"

	"github.com/gin-gonic/gin"
)

// RegisterAdmin handles admin registration
func RegisterAdmin(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required,max=50"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		PhoneNumber string `json:"phoneNumber,omitempty"`
		Location    string `json:"location,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	admin := models.NewAdmin(input.Name, input.Email)
	admin.Password = input.Password
	admin.PhoneNumber = input.PhoneNumber
	admin.Location = input.Location

	if err := admin.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	if err := adminService.Register(ctx, admin); err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Admin with this email already exists"})
			return
		}
		log.Println("Error registering admin:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        admin.ID,
		"name":      admin.Name,
		"email":     admin.Email,
		"role":      admin.Role,
		"createdAt": admin.CreatedAt,
	})
}

// LoginAdmin handles admin login
func LoginAdmin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	admin, err := adminRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !admin.ComparePassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := authUtils.GenerateToken("admin_uid", admin.UID(), admin.Name)
	if err != nil {
		log.Println("Error generating token:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	// Touch only the timestamp. A full Save here would race the aggregate
	// path and could write this handler's stale copy over fresh stats.
	if err := adminRepo.UpdateLastLogin(ctx, admin.UID(), time.Now()); err != nil {
		log.Println("Error updating last login:", err)
	}

	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	// For production, don't set domain to allow cross-origin cookies
	if environment == "production" {
		domain = ""
	}

	cookie := &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		MaxAge:   3600, // 1 hour
		Path:     "/",
		Domain:   domain,
		Secure:   environment == "production", // false for HTTP (dev), true for HTTPS (prod)
		HttpOnly: true,                        // still protect from JS access
		SameSite: http.SameSiteNoneMode,       // Required for cross-origin cookies in production
	}
	http.SetCookie(c.Writer, cookie)

	c.JSON(http.StatusOK, gin.H{
		"id":    admin.ID,
		"name":  admin.Name,
		"email": admin.Email,
		"role":  admin.Role,
		"token": token,
	})
}

// GetAdminProfile retrieves the authenticated admin's profile
func GetAdminProfile(c *gin.Context) {
	adminUID, exists := c.Get("admin_uid")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Admin not authenticated"})
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	admin, err := adminRepo.FindByUID(ctx, adminUID.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		return
	}

	c.JSON(http.StatusOK, admin)
}

// LogoutAdmin handles admin logout by clearing the auth_token cookie
func LogoutAdmin(c *gin.Context) {
	environment := os.Getenv("GO_ENV")
	domain := os.Getenv("DOMAIN")

	c.SetCookie("auth_token", "", -1, "/", domain, environment == "production", true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}
