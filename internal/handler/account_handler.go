package handler

import (
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler serves the caller's own pages and the account records
// managed by admins.
type AccountHandler struct {
	profiles    service.ProfileService
	accounts    service.AccountService
	ledger      service.LedgerService
	enrollments service.EnrollmentService
}

func NewAccountHandler(profiles service.ProfileService, accounts service.AccountService, ledger service.LedgerService, enrollments service.EnrollmentService) *AccountHandler {
	return &AccountHandler{profiles: profiles, accounts: accounts, ledger: ledger, enrollments: enrollments}
}

// MyAccount returns the caller's profile and, when one is linked, their
// billing account with its live balance and enrollments.
func (h *AccountHandler) MyAccount(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Ensure(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}

	account, err := h.accounts.GetForProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	if account == nil {
		c.JSON(http.StatusOK, gin.H{"profile": profile, "account": nil})
		return
	}

	overview, err := h.overview(c, account)
	if err != nil {
		respondError(c, err, "Failed to load account")
		return
	}
	overview["profile"] = profile
	c.JSON(http.StatusOK, overview)
}

func (h *AccountHandler) overview(c *gin.Context, account *model.Account) (gin.H, error) {
	ctx := c.Request.Context()
	balance, err := h.ledger.ComputeBalance(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	enrollments, err := h.enrollments.List(ctx, model.EnrollmentFilters{AccountID: &account.ID})
	if err != nil {
		return nil, err
	}
	return gin.H{
		"account":     account,
		"balance":     balance,
		"enrollments": enrollments,
	}, nil
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.profiles.Ensure(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profiles.UpdateSelf(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Home is the landing page of the staff and admin areas.
func (h *AccountHandler) Home(c *gin.Context) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	profile, err := h.profiles.Ensure(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "area": c.FullPath()})
}

// --- Staff Routes ---

// StaffAccount shows an account with its balance and enrollments,
// without the ledger history.
func (h *AccountHandler) StaffAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	overview, err := h.overview(c, account)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, overview)
}

// --- Admin Routes ---

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	var filters model.AccountFilters
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.AccountStatus(statusParam)
		switch status {
		case model.AccountStatusActive, model.AccountStatusDebtor, model.AccountStatusInactive:
			filters.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status, use active, debtor or inactive"})
			return
		}
	}

	accounts, err := h.accounts.List(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err, "Failed to retrieve accounts")
		return
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req model.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req model.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err, "Failed to update account")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) SetAccountStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req model.SetAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	account, err := h.accounts.SetActive(c.Request.Context(), id, req.Active)
	if err != nil {
		respondError(c, err, "Failed to update account status")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profiles.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve profiles")
		return
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *AccountHandler) SetProfileRole(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req model.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profiles.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AccountHandler) Reconcile(c *gin.Context) {
	n, err := h.accounts.ReconcileBalances(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to reconcile balances")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts_updated": n})
}

// RegisterAccountRoutes wires the self-service pages on authed and the
// management routes on staff and admin.
func (h *AccountHandler) RegisterAccountRoutes(authed, staff, admin *gin.RouterGroup) {
	authed.GET("/account", h.MyAccount)
	authed.GET("/profile", h.GetProfile)
	authed.PUT("/profile", h.UpdateProfile)

	staff.GET("", h.Home)
	staff.GET("/accounts/:id", h.StaffAccount)

	admin.GET("", h.Home)
	admin.GET("/accounts", h.ListAccounts)
	admin.POST("/accounts", h.CreateAccount)
	admin.GET("/accounts/:id", h.GetAccount)
	admin.PUT("/accounts/:id", h.UpdateAccount)
	admin.PUT("/accounts/:id/status", h.SetAccountStatus)
	admin.GET("/profiles", h.ListProfiles)
	admin.PUT("/profiles/:id/role", h.SetProfileRole)
	admin.POST("/reconcile", h.Reconcile)
}
