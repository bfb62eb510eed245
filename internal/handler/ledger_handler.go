package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var expenseTypes = []model.EntryType{model.EntryTypeOverhead, model.EntryTypeSalaryExpense}

// LedgerHandler handles money movements
type LedgerHandler struct {
	service service.LedgerService
}

func NewLedgerHandler(s service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: s}
}

// record stores a user-entered magnitude with the sign its entry type
// carries: payments in, everything else out.
func (h *LedgerHandler) record(c *gin.Context, req model.MagnitudeRequest, entryType model.EntryType) {
	if req.Amount.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrZeroAmount.Error()})
		return
	}
	amount := req.Amount.Abs()
	if entryType != model.EntryTypePayment {
		amount = amount.Neg()
	}

	entry, err := h.service.RecordEntry(c.Request.Context(), model.LedgerEntryRequest{
		Amount:      amount,
		EntryType:   string(entryType),
		Description: req.Description,
		AccountID:   req.AccountID,
	})
	if err != nil {
		respondError(c, err, "Failed to record entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	entries, err := h.service.ListEntries(c.Request.Context(), expenseTypes)
	if err != nil {
		respondError(c, err, "Failed to retrieve expenses")
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req model.MagnitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	entryType := model.EntryTypeOverhead
	if req.Category != "" {
		entryType = model.EntryType(req.Category)
	}
	h.record(c, req, entryType)
}

// --- Admin Routes ---

func (h *LedgerHandler) CreatePayment(c *gin.Context) {
	var req model.MagnitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.AccountID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required for payments"})
		return
	}
	h.record(c, req, model.EntryTypePayment)
}

func (h *LedgerHandler) CreateSalary(c *gin.Context) {
	var req model.MagnitudeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.record(c, req, model.EntryTypeSalaryExpense)
}

// CreateAccountEntry appends a signed entry to one account. The amount
// is stored exactly as sent.
func (h *LedgerHandler) CreateAccountEntry(c *gin.Context) {
	var req model.LedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	accountID, ok := idParam(c)
	if !ok {
		return
	}
	req.AccountID = &accountID

	entry, err := h.service.RecordEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to record entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *LedgerHandler) ListAccountEntries(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	entries, err := h.service.ListAccountEntries(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve account ledger")
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *LedgerHandler) AccountBalance(c *gin.Context) {
	accountID, ok := idParam(c)
	if !ok {
		return
	}
	balance, err := h.service.ComputeBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "balance": balance})
}

func (h *LedgerHandler) ListEntries(c *gin.Context) {
	types, err := parseEntryTypes(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, err := h.service.ListEntries(c.Request.Context(), types)
	if err != nil {
		respondError(c, err, "Failed to retrieve ledger")
		return
	}
	c.JSON(http.StatusOK, nonNil(entries))
}

func (h *LedgerHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve statistics")
		return
	}
	if stats.ByType == nil {
		stats.ByType = map[model.EntryType]decimal.Decimal{}
	}
	c.JSON(http.StatusOK, stats)
}

func (h *LedgerHandler) ExportCSV(c *gin.Context) {
	types, err := parseEntryTypes(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	csv, err := h.service.ExportEntriesCSV(c.Request.Context(), types)
	if err != nil {
		respondError(c, err, "Failed to export ledger to CSV")
		return
	}

	fileName := fmt.Sprintf("ledger_export_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// RegisterLedgerRoutes wires expenses for every signed-in user, with
// writes limited by bookkeeperMW, and the full ledger under admin.
func (h *LedgerHandler) RegisterLedgerRoutes(authed, admin *gin.RouterGroup, bookkeeperMW gin.HandlerFunc) {
	authed.GET("/expenses", h.ListExpenses)
	authed.POST("/expenses", bookkeeperMW, h.CreateExpense)

	admin.GET("/accounts/:id/ledger", h.ListAccountEntries)
	admin.POST("/accounts/:id/ledger", h.CreateAccountEntry)
	admin.GET("/accounts/:id/balance", h.AccountBalance)
	admin.POST("/payments", h.CreatePayment)
	admin.POST("/salaries", h.CreateSalary)
	admin.GET("/ledger", h.ListEntries)
	admin.GET("/ledger/export", h.ExportCSV)
	admin.GET("/stats", h.Stats)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
