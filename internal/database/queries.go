package database

// Menu queries
const (
	ListMenuItemsSQL = `
		SELECT id, name, description, price, image, category, available, prep_minutes, created_at, updated_at
		FROM menu_items
		ORDER BY category, name`

	GetMenuItemSQL = `
		SELECT id, name, description, price, image, category, available, prep_minutes, created_at, updated_at
		FROM menu_items WHERE id = $1`

	InsertMenuItemSQL = `
		INSERT INTO menu_items (id, name, description, price, image, category, available, prep_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	UpdateMenuItemSQL = `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4, image = $5, category = $6,
		    available = $7, prep_minutes = $8, updated_at = NOW()
		WHERE id = $1`

	SetMenuItemAvailabilitySQL = `
		UPDATE menu_items SET available = $2, updated_at = NOW() WHERE id = $1`

	DeleteMenuItemSQL = `
		DELETE FROM menu_items WHERE id = $1`

	ListCategoriesSQL = `
		SELECT id, name FROM categories ORDER BY position`
)

// Cart and wishlist queries
const (
	ListCartItemsSQL = `
		SELECT m.id, m.name, m.description, m.price, m.image, m.category, m.available, m.prep_minutes,
		       c.quantity
		FROM cart_items c
		JOIN menu_items m ON m.id = c.item_id
		WHERE c.actor_key = $1
		ORDER BY c.added_at`

	UpsertCartItemSQL = `
		INSERT INTO cart_items (actor_key, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (actor_key, item_id) DO UPDATE SET quantity = cart_items.quantity + $3`

	ListCartItemIDsSQL = `
		SELECT item_id FROM cart_items WHERE actor_key = $1 ORDER BY added_at`

	SetCartItemQuantitySQL = `
		UPDATE cart_items SET quantity = $3 WHERE actor_key = $1 AND item_id = $2`

	DeleteCartItemSQL = `
		DELETE FROM cart_items WHERE actor_key = $1 AND item_id = $2`

	ClearCartSQL = `
		DELETE FROM cart_items WHERE actor_key = $1`

	ListWishlistItemsSQL = `
		SELECT m.id, m.name, m.description, m.price, m.image, m.category, m.available, m.prep_minutes
		FROM wishlist_items w
		JOIN menu_items m ON m.id = w.item_id
		WHERE w.actor_key = $1
		ORDER BY w.added_at`

	InsertWishlistItemSQL = `
		INSERT INTO wishlist_items (actor_key, item_id)
		VALUES ($1, $2)
		ON CONFLICT (actor_key, item_id) DO NOTHING`

	DeleteWishlistItemSQL = `
		DELETE FROM wishlist_items WHERE actor_key = $1 AND item_id = $2`

	ClearWishlistSQL = `
		DELETE FROM wishlist_items WHERE actor_key = $1`
)

// Order queries. Updates rewrite every mutable field: whole-order replace
// semantics, no partial-field updates.
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, user_id, customer_name, customer_email, customer_phone,
			total_amount, status, payment_method, coupon_code, discount, notes,
			addr_street, addr_city, addr_state, addr_zip,
			estimated_minutes, estimated_delivery, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	InsertOrderLineSQL = `
		INSERT INTO order_lines (order_id, item_id, name, unit_price, quantity, prep_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)`

	UpdateOrderSQL = `
		UPDATE orders
		SET status = $2, estimated_minutes = $3, estimated_delivery = $4, delivered_at = $5
		WHERE id = $1`

	selectOrderColumns = `
		SELECT o.id, o.user_id, o.customer_name, o.customer_email, o.customer_phone,
		       o.total_amount, o.status, o.payment_method, o.coupon_code, o.discount, o.notes,
		       o.addr_street, o.addr_city, o.addr_state, o.addr_zip,
		       o.estimated_minutes, o.estimated_delivery, o.created_at, o.delivered_at
		FROM orders o`

	GetOrderSQL = selectOrderColumns + `
		WHERE o.id = $1`

	ListOrdersSQL = selectOrderColumns + `
		ORDER BY o.created_at DESC`

	ListOrdersByUserSQL = selectOrderColumns + `
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`

	ListOrdersByStatusSQL = selectOrderColumns + `
		WHERE o.status = ANY($1)
		ORDER BY o.created_at DESC`

	ListOrderLinesSQL = `
		SELECT order_id, item_id, name, unit_price, quantity, prep_minutes
		FROM order_lines
		WHERE order_id = ANY($1)
		ORDER BY id`

	NextOrderSequenceSQL = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 'ORD_[0-9]{8}_([0-9]{3})') AS INTEGER)), 0) + 1
		FROM orders
		WHERE id LIKE $1`
)

// Notification queries
const (
	InsertNotificationSQL = `
		INSERT INTO notifications (id, type, title, message, order_id, target_user_id, for_admin, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	ListNotificationsSQL = `
		SELECT id, type, title, message, order_id, target_user_id, for_admin, read, created_at
		FROM notifications
		ORDER BY created_at DESC, id DESC`

	MarkNotificationReadSQL = `
		UPDATE notifications SET read = TRUE WHERE id = $1`

	MarkNotificationsReadSQL = `
		UPDATE notifications SET read = TRUE WHERE id = ANY($1)`

	DeleteNotificationsSQL = `
		DELETE FROM notifications WHERE id = ANY($1)`
)

// Coupon queries
const (
	GetCouponByCodeSQL = `
		SELECT id, code, description, discount_type, discount_value, min_order_amount,
		       max_discount, expires_at, active, usage_limit, used_count
		FROM coupons
		WHERE LOWER(code) = LOWER($1)`

	IncrementCouponUsageSQL = `
		UPDATE coupons SET used_count = used_count + 1 WHERE id = $1`
)

// User and session queries
const (
	InsertUserSQL = `
		INSERT INTO users (id, name, email, phone, password_hash, is_admin, addresses)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	GetUserByEmailSQL = `
		SELECT id, name, email, phone, password_hash, is_admin, addresses, created_at
		FROM users WHERE LOWER(email) = LOWER($1)`

	GetUserByIDSQL = `
		SELECT id, name, email, phone, password_hash, is_admin, addresses, created_at
		FROM users WHERE id = $1`

	UpdateUserAddressesSQL = `
		UPDATE users SET addresses = $2 WHERE id = $1`

	InsertSessionSQL = `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)`

	GetSessionSQL = `
		SELECT token, user_id, created_at, expires_at
		FROM sessions WHERE token = $1`

	DeleteSessionSQL = `
		DELETE FROM sessions WHERE token = $1`
)

// Settings queries
const (
	GetSettingsSQL = `
		SELECT data FROM restaurant_settings WHERE id = 1`

	PutSettingsSQL = `
		INSERT INTO restaurant_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = $1, updated_at = NOW()`
)
