package constants

const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// Notification publisher providers
const (
	PubSubProviderRabbitMQ = "rabbitmq"
	PubSubProviderLocal    = "local"
	PubSubProviderGoogle   = "google"
)

// Storage prefixes for uploaded files
const (
	StorageProducts        = "products"
	StorageProfilePictures = "profile-pictures"
	StorageMusicAudio      = "music/audio"
	StorageMusicCovers     = "music/covers"
	StorageNews            = "news"
	StorageBlogs           = "blogs"
	StorageSliders         = "sliders"
	StorageEvents          = "events"
	StorageCampaigns       = "campaigns"
	StorageAboutUs         = "about-us"
)

// Permissions gate the admin route groups.
const (
	PermUsersManage     = "users.manage"
	PermCatalogManage   = "catalog.manage"
	PermOrdersManage    = "orders.manage"
	PermDonationsManage = "donations.manage"
	PermEventsManage    = "events.manage"
	PermContentManage   = "content.manage"
	PermReportsView     = "reports.view"
)

// AllPermissions is the seed list granted to the admin role.
func AllPermissions() []string {
	return []string{
		PermUsersManage,
		PermCatalogManage,
		PermOrdersManage,
		PermDonationsManage,
		PermEventsManage,
		PermContentManage,
		PermReportsView,
	}
}

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Pagination defaults
const (
	DefaultPage    = 1
	DefaultPerPage = 15
	MaxPerPage     = 100
)
