package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// Auth Routes - Login & Logout
	RouteLogin  = "/login"
	RouteLogout = "/logout"

	// Course Routes
	RouteCourses      = "/admin/courses"
	RouteCoursesTable = "/admin/courses/table"
	RouteCourseNew    = "/admin/courses/new"
	RouteCourseEdit   = "/admin/courses/{id}/edit"
	RouteCourseSave   = "/admin/courses/{id}"
	RouteCourseDelete = "/admin/courses/{id}/delete"
	RouteCourseDates  = "/admin/courses/form/dates"

	// User Routes
	RouteUsers      = "/admin/users"
	RouteUsersTable = "/admin/users/table"
	RouteUserNew    = "/admin/users/new"
	RouteUserEdit   = "/admin/users/{id}/edit"
	RouteUserSave   = "/admin/users/{id}"
	RouteUserDelete = "/admin/users/{id}/delete"

	// Profile Routes
	RouteProfile        = "/admin/profile"
	RouteProfileRefresh = "/admin/profile/refresh"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
