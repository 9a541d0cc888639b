package leave_test

import (
	"context"
	"time"

	"github.com/srihar-15/EMS/internal/audit"
	"github.com/srihar-15/EMS/internal/config"
	"github.com/srihar-15/EMS/internal/domain"
	"github.com/srihar-15/EMS/internal/employee"
	"github.com/srihar-15/EMS/internal/leave"
	leaveerrors "github.com/srihar-15/EMS/internal/leave/errors"
	"github.com/srihar-15/EMS/internal/notification"
	"github.com/srihar-15/EMS/internal/rbac"
	rbacerrors "github.com/srihar-15/EMS/internal/rbac/errors"
	"github.com/srihar-15/EMS/internal/rbac/infra"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Leave workflow on a real store", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		svc      leave.Service
		notifRep notification.Repository

		emp   = domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}
		hr    = domain.Actor{ID: "hr-1", Role: domain.RoleHR}
		admin = domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	)

	seed := func(actor domain.Actor, balance domain.LeaveBalance) {
		Expect(db.Create(&employee.Employee{
			ID:             actor.ID,
			EmployeeNumber: "EMP-" + actor.ID,
			Name:           actor.ID,
			Email:          actor.ID + "@example.com",
			Role:           actor.Role,
			Department:     "Engineering",
			Designation:    "Staff",
			Salary:         decimal.NewFromInt(1000),
			JoinDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Status:         employee.StatusActive,
			LeaveBalance:   balance,
		}).Error).To(Succeed())
	}

	balanceOf := func(id string) domain.LeaveBalance {
		var e employee.Employee
		Expect(db.First(&e, "id = ?", id).Error).To(Succeed())
		return e.LeaveBalance
	}

	countAudit := func(action string) int64 {
		var n int64
		Expect(db.Model(&audit.AuditLog{}).Where("action = ?", action).Count(&n).Error).To(Succeed())
		return n
	}

	inbox := func(id string) []notification.Notification {
		items, err := notifRep.ListByRecipient(ctx, id, 50)
		Expect(err).NotTo(HaveOccurred())
		return items
	}

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		DeferCleanup(sqlDB.Close)

		Expect(db.AutoMigrate(
			&employee.Employee{},
			&leave.Leave{},
			&audit.AuditLog{},
			&notification.Notification{},
		)).To(Succeed())

		auditSvc := audit.NewService(audit.NewRepository(db))
		enforcer, err := infra.NewEnforcer(rbac.ModelText, rbac.Rules())
		Expect(err).NotTo(HaveOccurred())
		gate := rbac.NewService(enforcer, auditSvc)

		notifRep = notification.NewRepository(db)
		notifier := notification.NewService(notifRep, employee.NewRepository(db), gate)

		svc = leave.NewService(sqlDB, leave.NewRepository(db), nil, gate, notifier, auditSvc,
			config.LeaveConfig{EscalationThresholdDays: 3})

		seed(emp, domain.LeaveBalance{Vacation: 20, Sick: 2, Personal: 5})
		seed(hr, domain.DefaultLeaveBalance())
		seed(admin, domain.DefaultLeaveBalance())
	})

	It("rejects a 3-day sick leave against a balance of 2 without side effects", func() {
		_, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "sick", StartDate: "2026-03-02", EndDate: "2026-03-04",
		})
		Expect(err).To(MatchError(leaveerrors.ErrInsufficientBalance))

		var n int64
		Expect(db.Model(&leave.Leave{}).Count(&n).Error).To(Succeed())
		Expect(n).To(BeZero())
		Expect(balanceOf(emp.ID).Sick).To(Equal(2))
		Expect(countAudit(audit.ActionApplyLeave)).To(BeZero())
	})

	It("routes a 5-day vacation through HR and admin and deducts once", func() {
		submitted, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "vacation", StartDate: "2026-03-02", EndDate: "2026-03-06",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(submitted.Status).To(Equal("PENDING"))
		Expect(submitted.ApprovalLevel).To(Equal("L2"))
		Expect(inbox(hr.ID)).To(HaveLen(1))

		escalated, err := svc.ApproveFirstLevel(ctx, hr, submitted.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(escalated.Status).To(Equal("PENDING_ADMIN"))
		Expect(balanceOf(emp.ID).Vacation).To(Equal(20))
		Expect(inbox(admin.ID)).To(ContainElement(HaveField("Severity", string(notification.SeverityWarning))))

		_, err = svc.ApproveSecondLevel(ctx, hr, submitted.ID)
		Expect(err).To(MatchError(rbacerrors.ErrAccessDenied))
		Expect(countAudit(audit.ActionSecurityViolation)).To(Equal(int64(1)))

		approved, err := svc.ApproveSecondLevel(ctx, admin, submitted.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(approved.Status).To(Equal("APPROVED"))
		Expect(balanceOf(emp.ID).Vacation).To(Equal(15))
		Expect(inbox(emp.ID)).To(ContainElement(HaveField("Severity", string(notification.SeveritySuccess))))

		_, err = svc.ApproveSecondLevel(ctx, admin, submitted.ID)
		Expect(err).To(MatchError(leaveerrors.ErrNotEscalated))
		_, err = svc.ApproveFirstLevel(ctx, hr, submitted.ID)
		Expect(err).To(MatchError(leaveerrors.ErrNotPending))
		Expect(balanceOf(emp.ID).Vacation).To(Equal(15))
		Expect(countAudit(audit.ActionApproveLeave)).To(Equal(int64(1)))
	})

	It("finalizes a short request at the first level", func() {
		submitted, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "personal", StartDate: "2026-04-01", EndDate: "2026-04-03",
		})
		Expect(err).NotTo(HaveOccurred())

		approved, err := svc.ApproveFirstLevel(ctx, hr, submitted.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(approved.Status).To(Equal("APPROVED"))
		Expect(approved.EscalatedBy).To(BeNil())
		Expect(balanceOf(emp.ID).Personal).To(Equal(2))
		Expect(countAudit(audit.ActionEscalateLeave)).To(BeZero())
	})

	It("fails finalization when the balance drifted after submission", func() {
		submitted, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "sick", StartDate: "2026-05-04", EndDate: "2026-05-05",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(&employee.Employee{}).Where("id = ?", emp.ID).Update("balance_sick", 1).Error).To(Succeed())

		_, err = svc.ApproveFirstLevel(ctx, hr, submitted.ID)
		Expect(err).To(MatchError(leaveerrors.ErrBalanceMismatch))

		got, err := svc.GetByID(ctx, hr, submitted.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Status).To(Equal("PENDING"))
		Expect(balanceOf(emp.ID).Sick).To(Equal(1))
	})

	It("rejects with the default reason and leaves the balance alone", func() {
		submitted, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "vacation", StartDate: "2026-06-01", EndDate: "2026-06-10",
		})
		Expect(err).NotTo(HaveOccurred())

		rejected, err := svc.Reject(ctx, hr, submitted.ID, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(*rejected.RejectionReason).To(Equal(leave.DefaultRejectionReason))
		Expect(balanceOf(emp.ID).Vacation).To(Equal(20))
		Expect(inbox(emp.ID)).To(ContainElement(HaveField("Severity", string(notification.SeverityError))))

		_, err = svc.Reject(ctx, admin, submitted.ID, "again")
		Expect(err).To(MatchError(leaveerrors.ErrNotPending))
	})

	It("audits exactly one violation when an employee tries to approve", func() {
		submitted, err := svc.Submit(ctx, emp, leave.SubmitLeaveRequest{
			LeaveType: "vacation", StartDate: "2026-07-01", EndDate: "2026-07-01",
		})
		Expect(err).NotTo(HaveOccurred())

		_, err = svc.ApproveFirstLevel(ctx, emp, submitted.ID)
		Expect(err).To(MatchError(rbacerrors.ErrAccessDenied))
		Expect(countAudit(audit.ActionSecurityViolation)).To(Equal(int64(1)))

		others, total, err := svc.List(ctx, domain.Actor{ID: "hr-1", Role: domain.RoleEmployee}, leave.ListLeavesRequest{Page: 1, PageSize: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
		Expect(others).To(BeEmpty())
	})
})
