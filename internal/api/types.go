package api

// Book status values mirror the backend's integer encoding.
const (
	BookStatusDraft     = 0
	BookStatusPublished = 1
)

// Profile is the authenticated user's account record. ID is the numeric
// key reviews are filtered by.
type Profile struct {
	ID       int64  `json:"id,omitempty"`
	UUID     string `json:"uuid,omitempty"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}

// LoginResult is the token grant returned by the login endpoint. Unlike
// everything else it is not envelope-wrapped.
type LoginResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserType     string `json:"userType"`
}

// BookDetails holds the catalog metadata nested under a book.
type BookDetails struct {
	Description string `json:"description,omitempty"`
	ISBN        string `json:"isbn,omitempty"`
	Language    string `json:"language,omitempty"`
	PageCount   int    `json:"pageCount,omitempty"`
}

// BookFile describes one uploaded manuscript file.
type BookFile struct {
	ID       int64  `json:"id,omitempty"`
	FileType string `json:"fileType,omitempty"`
}

// Book is a catalog entry. BookID, AuthorName, Genre, and AverageRating
// are only populated on reader-facing listings.
type Book struct {
	BookID        int64        `json:"bookId,omitempty"`
	UUID          string       `json:"uuid"`
	Title         string       `json:"title"`
	Status        int          `json:"status"`
	AuthorName    string       `json:"author_name,omitempty"`
	Genre         string       `json:"genre,omitempty"`
	AverageRating float64      `json:"average_rating,omitempty"`
	Details       *BookDetails `json:"bookDetails,omitempty"`
	Files         []BookFile   `json:"bookFiles,omitempty"`
}

// Published reports whether the book is visible to readers.
func (b *Book) Published() bool { return b.Status == BookStatusPublished }

// BookInput is the flat write shape for create and update calls.
type BookInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ISBN        string `json:"isbn"`
	Language    string `json:"language"`
	PageCount   int    `json:"pageCount"`
	Status      int    `json:"status"`
}

// Review is a reader's rating and comment on a book.
type Review struct {
	ID      int64  `json:"id,omitempty"`
	BookID  int64  `json:"bookId"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// DashboardStats aggregates an author's catalog figures.
type DashboardStats struct {
	TotalBooks           int     `json:"totalBooks"`
	PublishedBooks       int     `json:"publishedBooks"`
	DraftBooks           int     `json:"draftBooks"`
	TotalDownloads       int     `json:"totalDownloads"`
	TotalReviewsReceived int     `json:"totalReviewsReceived"`
	AverageRating        float64 `json:"averageRating"`
}

// Activity is one entry in the dashboard's recent-activity feed.
type Activity struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Dashboard is the author dashboard payload.
type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	RecentActivity []Activity     `json:"recentActivity,omitempty"`
}
