package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/timfmjones/project-manager-backend/auth"
	"github.com/timfmjones/project-manager-backend/database"
	"github.com/timfmjones/project-manager-backend/models"
)

// TokenIssuer mints bearer tokens for resolved accounts.
type TokenIssuer interface {
	IssueToken(userID uuid.UUID) (string, error)
}

func Register(db *database.DB, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("Password hash error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		ctx := c.Request.Context()
		user, err := db.CreateUser(ctx, req.Email, &hash)
		if err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
				return
			}
			respondDBError(c, err, "User not found")
			return
		}

		issueAuthResponse(c, tokens, user, false)
	}
}

func Login(db *database.DB, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		user, err := db.GetUserByEmail(ctx, req.Email)
		if err != nil || user.PasswordHash == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		if !auth.CheckPassword(req.Password, *user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		issueAuthResponse(c, tokens, user, false)
	}
}

// Guest creates a throwaway account with a synthetic email and no
// password, so the client can try the app without registering.
func Guest(db *database.DB, tokens TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestEmail := fmt.Sprintf("guest-%d@temp.local", time.Now().UnixMilli())

		ctx := c.Request.Context()
		user, err := db.CreateUser(ctx, guestEmail, nil)
		if err != nil {
			respondDBError(c, err, "User not found")
			return
		}

		issueAuthResponse(c, tokens, user, true)
	}
}

// GoogleSignIn verifies a federated ID token, then creates an account for
// a new email or links the federated identity to an existing one. When
// the provider is not configured the client is told to use password auth.
func GoogleSignIn(db *database.DB, tokens TokenIssuer, provider auth.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if provider == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Google sign-in is not available, please use password auth",
			})
			return
		}

		var req models.GoogleSignInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		identity, err := provider.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			if errors.Is(err, auth.ErrProviderUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"error": "Google sign-in is not available, please use password auth",
				})
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication token"})
			return
		}

		var displayName, photoURL *string
		if identity.Name != "" {
			displayName = &identity.Name
		}
		if identity.Picture != "" {
			photoURL = &identity.Picture
		}

		user, err := db.GetUserByGoogleID(ctx, identity.Subject)
		if errors.Is(err, database.ErrNotFound) {
			// Not seen before: link by email when the account exists,
			// otherwise create one from the verified claims.
			existing, lookupErr := db.GetUserByEmail(ctx, identity.Email)
			switch {
			case lookupErr == nil:
				user, err = db.LinkGoogleIdentity(ctx, existing.ID, identity.Subject, displayName, photoURL)
			case errors.Is(lookupErr, database.ErrNotFound):
				user, err = db.CreateGoogleUser(ctx, identity.Email, identity.Subject, displayName, photoURL)
			default:
				err = lookupErr
			}
		}
		if err != nil {
			respondDBError(c, err, "User not found")
			return
		}

		issueAuthResponse(c, tokens, user, false)
	}
}

func Me(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		ctx := c.Request.Context()
		user, err := db.GetUserByID(ctx, userID)
		if err != nil {
			respondDBError(c, err, "User not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"displayName": user.DisplayName,
			"photoUrl":    user.PhotoURL,
			"createdAt":   user.CreatedAt,
		})
	}
}

func issueAuthResponse(c *gin.Context, tokens TokenIssuer, user *models.User, isGuest bool) {
	token, err := tokens.IssueToken(user.ID)
	if err != nil {
		log.Printf("Token issue error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Token: token,
		User: models.UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			PhotoURL:    user.PhotoURL,
			IsGuest:     isGuest,
		},
	})
}
