package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/models"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/storage"
	"github.com/VaibhavPatilDevOps/Remote-Attendence-App/internal/utils"
)

type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler { return &AdminHandler{DB: db} }

func userParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}
	return uint(id64), true
}

// =========================
// EMPLOYEES
// =========================
type CreateEmployeeReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Role  string `json:"role"`

	EmployeeType   string `json:"employee_type"`
	Designation    string `json:"designation"`
	JobType        string `json:"job_type"`
	EmploymentType string `json:"employment_type"`
	Timing         string `json:"timing"`
	Company        string `json:"company"`
	Department     string `json:"department"`
	JoiningDate    string `json:"joining_date"` // YYYY-MM-DD
}

// CreateEmployee provisions an account with the next badge number and a
// generated temporary password the employee must change on first login.
func (h *AdminHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email required"})
		return
	}

	role := models.UserRole(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleEmployee && role != models.RoleManager && role != models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	var joining *time.Time
	if d := strings.TrimSpace(req.JoiningDate); d != "" {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid joining_date"})
			return
		}
		joining = &t
	}

	// short, typeable temp password; forced change on first login
	tempPassword := "Tmp@" + uuid.NewString()[:8]
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}

	u := models.User{
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Role:           role,
		Status:         models.StatusActive,
		PasswordHash:   hash,
		TempPassword:   true,
		EmployeeType:   strings.TrimSpace(req.EmployeeType),
		Designation:    strings.TrimSpace(req.Designation),
		JobType:        strings.TrimSpace(req.JobType),
		EmploymentType: strings.TrimSpace(req.EmploymentType),
		Timing:         strings.TrimSpace(req.Timing),
		Company:        strings.TrimSpace(req.Company),
		Department:     strings.TrimSpace(req.Department),
		JoiningDate:    joining,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		empID, err := storage.NextEmployeeID(tx)
		if err != nil {
			return err
		}
		u.EmployeeID = empID
		return tx.Create(&u).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// either the email or a concurrently allocated badge number collided
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate employee"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":        "ok",
		"data":          u,
		"temp_password": tempPassword,
	})
}

func (h *AdminHandler) ListEmployees(c *gin.Context) {
	var rows []models.User
	if err := h.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

func (h *AdminHandler) GetEmployee(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}

	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": u})
}

type UpdateEmployeeReq struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	Status         *string `json:"status"`
	EmployeeType   *string `json:"employee_type"`
	Designation    *string `json:"designation"`
	JobType        *string `json:"job_type"`
	EmploymentType *string `json:"employment_type"`
	Timing         *string `json:"timing"`
	Company        *string `json:"company"`
	Department     *string `json:"department"`
	JoiningDate    *string `json:"joining_date"`
}

func (h *AdminHandler) UpdateEmployee(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}

	var req UpdateEmployeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		role := models.UserRole(strings.TrimSpace(*req.Role))
		if role != models.RoleEmployee && role != models.RoleManager && role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		u.Role = role
	}
	if req.Status != nil {
		status := models.UserStatus(strings.TrimSpace(*req.Status))
		if status != models.StatusActive && status != models.StatusInactive {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		u.Status = status
	}
	if req.EmployeeType != nil {
		u.EmployeeType = strings.TrimSpace(*req.EmployeeType)
	}
	if req.Designation != nil {
		u.Designation = strings.TrimSpace(*req.Designation)
	}
	if req.JobType != nil {
		u.JobType = strings.TrimSpace(*req.JobType)
	}
	if req.EmploymentType != nil {
		u.EmploymentType = strings.TrimSpace(*req.EmploymentType)
	}
	if req.Timing != nil {
		u.Timing = strings.TrimSpace(*req.Timing)
	}
	if req.Company != nil {
		u.Company = strings.TrimSpace(*req.Company)
	}
	if req.Department != nil {
		u.Department = strings.TrimSpace(*req.Department)
	}
	if req.JoiningDate != nil {
		if d := strings.TrimSpace(*req.JoiningDate); d != "" {
			t, err := time.Parse(dateLayout, d)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid joining_date"})
				return
			}
			u.JoiningDate = &t
		} else {
			u.JoiningDate = nil
		}
	}

	if err := h.DB.Save(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already used"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": u})
}

// DeleteEmployee removes the account; sessions and their evidence cascade at
// the storage layer.
func (h *AdminHandler) DeleteEmployee(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ResetPassword issues a fresh temporary password.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}

	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	tempPassword := "Tmp@" + uuid.NewString()[:8]
	hash, err := utils.HashPassword(tempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}

	u.PasswordHash = hash
	u.TempPassword = true
	if err := h.DB.Save(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "temp_password": tempPassword})
}

// ResetTOTP clears a user's 2FA so they can re-enroll.
func (h *AdminHandler) ResetTOTP(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}

	var u models.User
	if err := h.DB.First(&u, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	u.TOTPSecret = ""
	u.TOTPEnabled = false
	if err := h.DB.Save(&u).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// =========================
// SETTINGS (picklists)
// =========================

func (h *AdminHandler) ListSettings(c *gin.Context) {
	tx := h.DB.Model(&models.Setting{})
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		tx = tx.Where("category = ?", cat)
	}

	var rows []models.Setting
	if err := tx.Order("category ASC, value ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": rows})
}

type SettingReq struct {
	Category string `json:"category" binding:"required"`
	Value    string `json:"value" binding:"required"`
}

func (h *AdminHandler) AddSetting(c *gin.Context) {
	var req SettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	s := models.Setting{
		Category: strings.TrimSpace(req.Category),
		Value:    strings.TrimSpace(req.Value),
	}
	if err := h.DB.Create(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "value already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "ok", "data": s})
}

type UpdateSettingReq struct {
	Value string `json:"value" binding:"required"`
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}

	var req UpdateSettingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	var s models.Setting
	if err := h.DB.First(&s, uint(id64)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}

	s.Value = strings.TrimSpace(req.Value)
	if err := h.DB.Save(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "value already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": s})
}

func (h *AdminHandler) DeleteSetting(c *gin.Context) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid setting id"})
		return
	}

	res := h.DB.Delete(&models.Setting{}, uint(id64))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "setting not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
