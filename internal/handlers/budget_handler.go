package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finview/internal/errors"
	"finview/internal/models"
	"finview/internal/period"
	"finview/internal/services"
)

// BudgetHandler handles budget-related requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// BudgetCategoryRequest is one category line of a budget payload.
type BudgetCategoryRequest struct {
	Key    string                `json:"key" binding:"required,category_key"`
	Name   string                `json:"name" binding:"required,min=1,max=100"`
	Pct    float64               `json:"pct"`
	Amount int64                 `json:"amount"`
	Type   models.CategoryOrigin `json:"type" binding:"omitempty,category_origin"`
}

// SaveBudgetRequest represents the request payload for saving a monthly budget.
// It has the same shape as a stored budget, so a budget read from the API
// can be posted back unchanged.
type SaveBudgetRequest struct {
	Income       float64                 `json:"income"`
	Rule         models.BudgetRule       `json:"rule" binding:"omitempty,budget_rule"`
	CustomSplits map[string]float64      `json:"customSplits"`
	Categories   []BudgetCategoryRequest `json:"categories" binding:"omitempty,dive"`
	Totals       models.BudgetTotals     `json:"totals"`
	Title        string                  `json:"title" binding:"max=200"`
	Period       period.Period           `json:"period"`
}

// PreviewBudgetRequest represents a budget draft to allocate without saving.
type PreviewBudgetRequest struct {
	Income       float64                 `json:"income"`
	Rule         models.BudgetRule       `json:"rule" binding:"omitempty,budget_rule"`
	CustomSplits map[string]float64      `json:"customSplits"`
	Categories   []BudgetCategoryRequest `json:"categories" binding:"omitempty,dive"`
}

// BudgetQuery selects a budget by calendar month.
type BudgetQuery struct {
	Month int `form:"month"`
	Year  int `form:"year"`
}

// BudgetResponse wraps a single budget.
type BudgetResponse struct {
	Budget *models.Budget `json:"budget"`
}

// BudgetListResponse wraps the owner's budgets.
type BudgetListResponse struct {
	Budgets []models.Budget `json:"budgets"`
}

func toBudgetCategories(in []BudgetCategoryRequest) []models.BudgetCategory {
	if in == nil {
		return nil
	}
	out := make([]models.BudgetCategory, len(in))
	for i, c := range in {
		out[i] = models.BudgetCategory{
			Key:    c.Key,
			Name:   c.Name,
			Pct:    c.Pct,
			Amount: c.Amount,
			Type:   c.Type,
		}
	}
	return out
}

// SaveBudget creates or replaces the budget for a month.
// @Summary     Save a monthly budget
// @Description Create the budget for the given month and year, or replace it if one already exists
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveBudgetRequest true "Budget details"
// @Success     200 {object} BudgetResponse "Saved budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget/save [post]
func (h *BudgetHandler) SaveBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	budget, err := h.budgetService.SaveBudget(c.Request.Context(), userID, services.SaveBudgetInput{
		Income:       req.Income,
		Rule:         req.Rule,
		CustomSplits: req.CustomSplits,
		Categories:   toBudgetCategories(req.Categories),
		Totals:       req.Totals,
		Title:        req.Title,
		Month:        req.Period.Month,
		Year:         req.Period.Year,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionSaveBudget, "budget", budget.ID, c.ClientIP(), map[string]interface{}{
		"month":  budget.Period.Month,
		"year":   budget.Period.Year,
		"rule":   budget.Rule,
		"income": budget.Income,
	})

	c.JSON(http.StatusOK, BudgetResponse{Budget: budget})
}

// GetMyBudget returns the budget for a month.
// @Summary     Get a monthly budget
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       month query int true "Month (1-12)"
// @Param       year  query int true "Year"
// @Success     200 {object} BudgetResponse "Budget"
// @Failure     400 {object} ErrorResponse "Month and year are required"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budget/me [get]
func (h *BudgetHandler) GetMyBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q BudgetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Month and year must be numbers"))
		return
	}

	budget, err := h.budgetService.GetBudget(c.Request.Context(), userID, q.Month, q.Year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BudgetResponse{Budget: budget})
}

// ListBudgets returns every budget of the user, newest month first.
// @Summary     List budgets
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} BudgetListResponse "Budgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/all [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}

	c.JSON(http.StatusOK, BudgetListResponse{Budgets: budgets})
}

// PreviewBudget allocates a draft budget without saving it.
// @Summary     Preview a budget allocation
// @Description Compute bucket totals and category amounts for a draft using the server's rounding
// @Tags        budget
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body PreviewBudgetRequest true "Budget draft"
// @Success     200 {object} services.BudgetPreview "Allocation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /budget/preview [post]
func (h *BudgetHandler) PreviewBudget(c *gin.Context) {
	var req PreviewBudgetRequest
	if !bindJSON(c, &req) {
		return
	}

	preview, err := h.budgetService.Preview(services.PreviewInput{
		Income:       req.Income,
		Rule:         req.Rule,
		CustomSplits: req.CustomSplits,
		Categories:   toBudgetCategories(req.Categories),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// GetDefaults returns the default rule and category template.
// @Summary     Budget defaults
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BudgetDefaults "Defaults"
// @Router      /budget/defaults [get]
func (h *BudgetHandler) GetDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, h.budgetService.Defaults())
}
