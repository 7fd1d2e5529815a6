package api

import "time"

// Product is a catalog entry.
type Product struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description,omitempty"`
	Price                float64 `json:"price"`
	Stock                int     `json:"stock"`
	Image                string  `json:"image,omitempty"`
	Category             string  `json:"category,omitempty"`
	RequiresPrescription bool    `json:"requiresPrescription,omitempty"`
}

// CartItem is one row of a cart. ID is the product identifier and is unique
// per cart. Stock is the ceiling captured when the product was loaded; the
// backend does not revalidate it until checkout.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
	Stock    int     `json:"stock,omitempty"`
}

// User is a platform account.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Doctor is a bookable clinician.
type Doctor struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Specialty string  `json:"specialty,omitempty"`
	Fee       float64 `json:"fee,omitempty"`
}

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a placed order as the dashboards render it.
type Order struct {
	ID        string          `json:"id"`
	User      Reference[User] `json:"user"`
	Items     []OrderItem     `json:"items"`
	Total     float64         `json:"total"`
	Status    string          `json:"status"`
	Address   string          `json:"address,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Slot is one bookable half-hour on a doctor's calendar. Date uses the
// 2006-01-02 layout, Time one of the half-hour labels ("09:00" .. "17:30").
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Booking is a paid consultation booking.
type Booking struct {
	ID        string            `json:"id"`
	User      Reference[User]   `json:"user"`
	Doctor    Reference[Doctor] `json:"doctor"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Fee       float64           `json:"fee"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Appointment is an entry in a doctor's own appointment list.
type Appointment struct {
	ID      string          `json:"id"`
	Patient Reference[User] `json:"patient"`
	Date    string          `json:"date"`
	Time    string          `json:"time"`
	Status  string          `json:"status"`
	Reason  string          `json:"reason,omitempty"`
}

// StaffMember is a staff account managed from the admin dashboard.
type StaffMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// StaffSession is the result of an admin-as-staff login.
type StaffSession struct {
	Token string      `json:"token"`
	Staff StaffMember `json:"staff"`
}

// InventoryItem is a stock row on the pharmacist dashboard.
type InventoryItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	Expiry   string  `json:"expiry,omitempty"`
}

// Prescription is an uploaded prescription awaiting review.
type Prescription struct {
	ID         string          `json:"id"`
	User       Reference[User] `json:"user"`
	FileURL    string          `json:"fileUrl"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	UploadedAt time.Time       `json:"uploadedAt"`
}

// Reminder is a medication reminder for a user.
type Reminder struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Medicine string   `json:"medicine"`
	Time     string   `json:"time"`
	Days     []string `json:"days,omitempty"`
}

// PaymentSummary is the revenue report head-line numbers.
type PaymentSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	OrderCount   int     `json:"orderCount"`
	AverageOrder float64 `json:"averageOrder,omitempty"`
}

// MonthlyRevenue is one month of the monthly revenue report.
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// ContactMessage is a contact-form submission in the admin inbox.
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatResponse is the assistant reply with the products it referenced.
type ChatResponse struct {
	Reply          string    `json:"reply"`
	ConversationID string    `json:"conversationId"`
	Sources        []Product `json:"sources,omitempty"`
}
