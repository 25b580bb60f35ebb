package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/gamezilla/storefront/internal/domain"
)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, u.email, r.name, u.created_at
		FROM users u
		LEFT JOIN roles r ON u.role_id = r.role_id
		ORDER BY u.user_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.RoleName, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *AdminRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT role_id, name FROM roles ORDER BY role_id
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return roles, nil
}

// UpdateUserRole points the user at an existing role; false means the user
// does not exist.
func (r *AdminRepository) UpdateUserRole(ctx context.Context, userID, roleID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET role_id = $1 WHERE user_id = $2
	`, roleID, userID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *AdminRepository) AssignPermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO role_permissions (role_id, permission_id)
		VALUES ($1, $2)
		ON CONFLICT (role_id, permission_id) DO NOTHING
	`, roleID, permissionID)
	return err
}

type RecentOrder struct {
	OrderID     int64     `json:"orderId"`
	Username    string    `json:"username"`
	TotalAmount float64   `json:"totalAmount"`
	Status      string    `json:"status"`
	OrderDate   time.Time `json:"orderDate"`
}

type DashboardStats struct {
	TotalUsers     int64         `json:"totalUsers"`
	TotalOrders    int64         `json:"totalOrders"`
	TotalRevenue   float64       `json:"totalRevenue"`
	RecentActivity []RecentOrder `json:"recentActivity"`
}

func (r *AdminRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{RecentActivity: []RecentOrder{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders)
	`).Scan(&stats.TotalUsers, &stats.TotalOrders, &stats.TotalRevenue)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.order_id, u.username, o.total_amount, o.status, o.order_date
		FROM orders o
		JOIN users u ON o.user_id = u.user_id
		ORDER BY o.order_date DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var order RecentOrder
		if err := rows.Scan(&order.OrderID, &order.Username, &order.TotalAmount,
			&order.Status, &order.OrderDate); err != nil {
			return nil, err
		}
		stats.RecentActivity = append(stats.RecentActivity, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

type DailySales struct {
	Day     time.Time `json:"day"`
	Orders  int64     `json:"orders"`
	Revenue float64   `json:"revenue"`
}

type TopGame struct {
	GameID   int64   `json:"gameId"`
	Title    string  `json:"title"`
	Quantity int64   `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

type SalesReport struct {
	DailySales []DailySales `json:"dailySales"`
	TopGames   []TopGame    `json:"topGames"`
}

// Sales aggregates the last 30 days of orders into a per-day series and a
// top-ten games table by units sold.
func (r *AdminRepository) Sales(ctx context.Context) (*SalesReport, error) {
	report := &SalesReport{DailySales: []DailySales{}, TopGames: []TopGame{}}

	rows, err := r.db.QueryContext(ctx, `
		SELECT order_date::date AS day, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE order_date >= NOW() - INTERVAL '30 days'
		GROUP BY day
		ORDER BY day
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var day DailySales
		if err := rows.Scan(&day.Day, &day.Orders, &day.Revenue); err != nil {
			return nil, err
		}
		report.DailySales = append(report.DailySales, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	gameRows, err := r.db.QueryContext(ctx, `
		SELECT g.game_id, g.title, SUM(oi.quantity), SUM(oi.subtotal)
		FROM order_items oi
		JOIN games g ON oi.game_id = g.game_id
		JOIN orders o ON oi.order_id = o.order_id
		WHERE o.order_date >= NOW() - INTERVAL '30 days'
		GROUP BY g.game_id, g.title
		ORDER BY SUM(oi.quantity) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = gameRows.Close() }()

	for gameRows.Next() {
		var game TopGame
		if err := gameRows.Scan(&game.GameID, &game.Title, &game.Quantity, &game.Revenue); err != nil {
			return nil, err
		}
		report.TopGames = append(report.TopGames, game)
	}
	if err := gameRows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

type TopUser struct {
	UserID     int64   `json:"userId"`
	Username   string  `json:"username"`
	OrderCount int64   `json:"orderCount"`
	TotalSpent float64 `json:"totalSpent"`
}

type UsersReport struct {
	NewUsers         int64     `json:"newUsers"`
	TopUsersByOrders []TopUser `json:"topUsersByOrders"`
}

func (r *AdminRepository) Users(ctx context.Context) (*UsersReport, error) {
	report := &UsersReport{TopUsersByOrders: []TopUser{}}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE created_at >= NOW() - INTERVAL '30 days'
	`).Scan(&report.NewUsers)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT u.user_id, u.username, COUNT(o.order_id), COALESCE(SUM(o.total_amount), 0)
		FROM users u
		JOIN orders o ON o.user_id = u.user_id
		GROUP BY u.user_id, u.username
		ORDER BY COUNT(o.order_id) DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var user TopUser
		if err := rows.Scan(&user.UserID, &user.Username, &user.OrderCount, &user.TotalSpent); err != nil {
			return nil, err
		}
		report.TopUsersByOrders = append(report.TopUsersByOrders, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}
