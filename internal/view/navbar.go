package view

import "github.com/jeevanhealth/portal/internal/model"

// NavItem is one navbar link.
type NavItem struct {
	Href string
	Text string
}

// Nav is the navbar view model: role-specific menu plus the right-side
// account links.
type Nav struct {
	Brand    string
	Items    []NavItem
	LoggedIn bool
	UserName string
}

var publicMenu = []NavItem{
	{Href: "/#hero", Text: "Home"},
	{Href: "/#about", Text: "About"},
	{Href: "/#services", Text: "Services"},
	{Href: "/#departments", Text: "Departments"},
	{Href: "/#contact", Text: "Contact"},
}

var menuByRole = map[model.Role][]NavItem{
	model.RolePatient: {
		{Href: "/patient/dashboard.html", Text: "Dashboard"},
		{Href: "/patient/appointments.html", Text: "Appointments"},
		{Href: "/patient/billing.html", Text: "Billing"},
	},
	model.RoleDoctor: {
		{Href: "/doctor/dashboard.html", Text: "Dashboard"},
		{Href: "/doctor/appointments.html", Text: "Appointments"},
	},
	model.RoleAdmin: {
		{Href: "/admin/dashboard.html", Text: "Dashboard"},
		{Href: "/admin/patients.html", Text: "Patients"},
		{Href: "/admin/doctors.html", Text: "Doctors"},
		{Href: "/admin/appointments.html", Text: "Appointments"},
		{Href: "/admin/billings.html", Text: "Billing"},
		{Href: "/admin/users.html", Text: "Users"},
	},
}

// NavFor builds the navbar for a role; an empty role yields the public
// menu with login/register links.
func NavFor(role model.Role, userName string) Nav {
	items, ok := menuByRole[role]
	if !ok {
		items = publicMenu
	}
	return Nav{
		Brand:    "Jeevan Hospital",
		Items:    items,
		LoggedIn: ok,
		UserName: userName,
	}
}
