package models

import "strings"

type UserRole string

const (
	EmployeeRole UserRole = "employee"
	AdminL1Role  UserRole = "adminL1"
	AdminL2Role  UserRole = "adminL2"
)

func (r UserRole) IsAdmin() bool {
	return r == AdminL1Role || r == AdminL2Role
}

// Normalize короткая форма роли администратора для фронта: adminL1 -> L1
func (r UserRole) Normalize() string {
	switch r {
	case AdminL1Role:
		return "L1"
	case AdminL2Role:
		return "L2"
	}
	return string(r)
}

// ReviewTag роль в составе статуса идеи: adminL1 -> L1Admin
func (r UserRole) ReviewTag() string {
	if r.IsAdmin() {
		return r.Normalize() + "Admin"
	}
	return strings.TrimSpace(string(r))
}

const UnknownAdminName = "Unknown Admin"
