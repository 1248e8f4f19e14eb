package services

import (
	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
)

// Hand-rolled repository mocks. Each method delegates to an optional
// function field; unset fields fall back to not-found or no-op defaults.

type mockApplicationRepo struct {
	createFn    func(app *models.Application) (int64, error)
	getByIDFn   func(id int64) (*models.Application, error)
	getLatestFn func(customerID int64) (*models.Application, error)
	getOpenFn   func(customerID int64) (*models.Application, error)
	getAllFn    func(page, pageSize int, statusFilter *string) ([]models.Application, int, error)
	updateFn    func(app *models.Application) error
}

func (m *mockApplicationRepo) CreateApplication(_ repositories.SQLExecutor, app *models.Application) (int64, error) {
	if m.createFn != nil {
		return m.createFn(app)
	}
	return 1, nil
}

func (m *mockApplicationRepo) GetApplicationByID(id int64) (*models.Application, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) GetLatestApplicationByCustomerID(customerID int64) (*models.Application, error) {
	if m.getLatestFn != nil {
		return m.getLatestFn(customerID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) GetOpenApplicationByCustomerID(customerID int64) (*models.Application, error) {
	if m.getOpenFn != nil {
		return m.getOpenFn(customerID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockApplicationRepo) GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error) {
	if m.getAllFn != nil {
		return m.getAllFn(page, pageSize, statusFilter)
	}
	return []models.Application{}, 0, nil
}

func (m *mockApplicationRepo) UpdateApplication(_ repositories.SQLExecutor, app *models.Application) error {
	if m.updateFn != nil {
		return m.updateFn(app)
	}
	return nil
}

type mockMemberRepo struct {
	createFn        func(member *models.Member) (int64, error)
	getByIDFn       func(id int64) (*models.Member, error)
	getByCustomerFn func(customerID int64) (*models.Member, error)
	getAllFn        func(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error)
	updateFn        func(member *models.Member) error
	updateStatusFn  func(id int64, status string) error
	updateTierFn    func(id int64, tier string) error
}

func (m *mockMemberRepo) CreateMember(_ repositories.SQLExecutor, member *models.Member) (int64, error) {
	if m.createFn != nil {
		return m.createFn(member)
	}
	member.ID = 1
	return 1, nil
}

func (m *mockMemberRepo) GetMemberByID(id int64) (*models.Member, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockMemberRepo) GetMemberByCustomerID(customerID int64) (*models.Member, error) {
	if m.getByCustomerFn != nil {
		return m.getByCustomerFn(customerID)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockMemberRepo) GetMembers(page, pageSize int, statusFilter, tierFilter *string) ([]models.Member, int, error) {
	if m.getAllFn != nil {
		return m.getAllFn(page, pageSize, statusFilter, tierFilter)
	}
	return []models.Member{}, 0, nil
}

func (m *mockMemberRepo) UpdateMember(_ repositories.SQLExecutor, member *models.Member) error {
	if m.updateFn != nil {
		return m.updateFn(member)
	}
	return nil
}

func (m *mockMemberRepo) UpdateMemberStatus(_ repositories.SQLExecutor, id int64, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(id, status)
	}
	return nil
}

func (m *mockMemberRepo) UpdateMemberTier(_ repositories.SQLExecutor, id int64, tier string) error {
	if m.updateTierFn != nil {
		return m.updateTierFn(id, tier)
	}
	return nil
}

type mockStaffRepo struct {
	createFn    func(staff *models.StaffMember) (int64, error)
	getByIDFn   func(id int64) (*models.StaffMember, error)
	getAllFn    func(activeOnly bool) ([]models.StaffMember, error)
	updateFn    func(staff *models.StaffMember) error
	setActiveFn func(id int64, active bool) error
	countFn     func() (int, error)
}

func (m *mockStaffRepo) CreateStaffMember(_ repositories.SQLExecutor, staff *models.StaffMember) (int64, error) {
	if m.createFn != nil {
		return m.createFn(staff)
	}
	staff.ID = 1
	return 1, nil
}

func (m *mockStaffRepo) GetStaffMemberByID(id int64) (*models.StaffMember, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockStaffRepo) GetStaffMembers(activeOnly bool) ([]models.StaffMember, error) {
	if m.getAllFn != nil {
		return m.getAllFn(activeOnly)
	}
	return []models.StaffMember{}, nil
}

func (m *mockStaffRepo) UpdateStaffMember(_ repositories.SQLExecutor, staff *models.StaffMember) error {
	if m.updateFn != nil {
		return m.updateFn(staff)
	}
	return nil
}

func (m *mockStaffRepo) SetStaffActive(_ repositories.SQLExecutor, id int64, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(id, active)
	}
	return nil
}

func (m *mockStaffRepo) CountStaffMembers() (int, error) {
	if m.countFn != nil {
		return m.countFn()
	}
	return 0, nil
}

type mockBenefitRepo struct {
	createFn     func(benefit *models.Benefit) (int64, error)
	getByIDFn    func(id int64) (*models.Benefit, error)
	getActiveFn  func() ([]models.Benefit, error)
	getForTierFn func(tier string) ([]models.Benefit, error)
	countFn      func() (int, error)
}

func (m *mockBenefitRepo) CreateBenefit(_ repositories.SQLExecutor, benefit *models.Benefit) (int64, error) {
	if m.createFn != nil {
		return m.createFn(benefit)
	}
	benefit.ID = 1
	return 1, nil
}

func (m *mockBenefitRepo) GetBenefitByID(id int64) (*models.Benefit, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockBenefitRepo) GetActiveBenefits() ([]models.Benefit, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn()
	}
	return []models.Benefit{}, nil
}

func (m *mockBenefitRepo) GetActiveBenefitsForTier(tier string) ([]models.Benefit, error) {
	if m.getForTierFn != nil {
		return m.getForTierFn(tier)
	}
	return []models.Benefit{}, nil
}

func (m *mockBenefitRepo) CountBenefits() (int, error) {
	if m.countFn != nil {
		return m.countFn()
	}
	return 0, nil
}

type mockActivityRepo struct {
	createFn   func(activity *models.Activity) (int64, error)
	getByMemFn func(memberID int64, limit int) ([]models.Activity, error)
}

func (m *mockActivityRepo) CreateActivity(_ repositories.SQLExecutor, activity *models.Activity) (int64, error) {
	if m.createFn != nil {
		return m.createFn(activity)
	}
	activity.ID = 1
	return 1, nil
}

func (m *mockActivityRepo) GetActivitiesByMemberID(memberID int64, limit int) ([]models.Activity, error) {
	if m.getByMemFn != nil {
		return m.getByMemFn(memberID, limit)
	}
	return []models.Activity{}, nil
}

type mockNotificationRepo struct {
	createFn   func(notification *models.Notification) (int64, error)
	getByIDFn  func(id int64) (*models.Notification, error)
	getByMemFn func(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error)
	setReadFn  func(id int64, read bool) error
	countFn    func(memberID int64) (int, error)
}

func (m *mockNotificationRepo) CreateNotification(_ repositories.SQLExecutor, notification *models.Notification) (int64, error) {
	if m.createFn != nil {
		return m.createFn(notification)
	}
	notification.ID = 1
	return 1, nil
}

func (m *mockNotificationRepo) GetNotificationByID(id int64) (*models.Notification, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return nil, repositories.ErrNotFound
}

func (m *mockNotificationRepo) GetNotificationsByMemberID(memberID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	if m.getByMemFn != nil {
		return m.getByMemFn(memberID, unreadOnly, limit)
	}
	return []models.Notification{}, nil
}

func (m *mockNotificationRepo) SetNotificationRead(_ repositories.SQLExecutor, id int64, read bool) error {
	if m.setReadFn != nil {
		return m.setReadFn(id, read)
	}
	return nil
}

func (m *mockNotificationRepo) CountWelcomeNotifications(memberID int64) (int, error) {
	if m.countFn != nil {
		return m.countFn(memberID)
	}
	return 0, nil
}

type mockPortfolioRepo struct {
	getFn func(customerID int64) (*models.InvestmentPortfolio, error)
}

func (m *mockPortfolioRepo) GetPortfolioByCustomerID(customerID int64) (*models.InvestmentPortfolio, error) {
	if m.getFn != nil {
		return m.getFn(customerID)
	}
	return nil, repositories.ErrNotFound
}

type mockAuthRepo struct {
	createFn         func(user *models.User, hashedPassword string) (int64, error)
	findByUsernameFn func(username string) (*models.User, string, error)
	findByIDFn       func(userID int64) (*models.User, error)
}

func (m *mockAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	if m.createFn != nil {
		return m.createFn(user, hashedPassword)
	}
	return 1, nil
}

func (m *mockAuthRepo) FindUserByUsername(username string) (*models.User, string, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(username)
	}
	return nil, "", repositories.ErrNotFound
}

func (m *mockAuthRepo) FindUserByID(userID int64) (*models.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(userID)
	}
	return nil, repositories.ErrNotFound
}
