package nakama

const (
	// RpcProfile returns the caller's stats, rank, settings and save flag.
	RpcProfile = "durak_profile"
	// RpcSaveSettings stores the caller's game settings.
	RpcSaveSettings = "durak_save_settings"
	// RpcStart creates a private match for the caller and returns its id.
	RpcStart = "durak_start"

	// MatchNameDurak is the authoritative match handler name registered with Nakama.
	MatchNameDurak = "durak_match"

	// StorageCollection holds every profile document of a user.
	StorageCollection = "durak"
)

// Match params set by RpcStart.
const (
	paramUserID = "user_id"
	paramResume = "resume"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpSelect    int64 = 1
	OpMain      int64 = 2
	OpSecondary int64 = 3
	OpPlay      int64 = 4
	OpExit      int64 = 5

	// Server -> Client
	OpState int64 = 100
	OpEvent int64 = 101
	OpError int64 = 102
)

// Error codes sent with OpError.
const (
	errCodeBadRequest = 400
	errCodeInternal   = 500
)

// emptyMatchSeconds is how long a match waits for its owner to connect.
const emptyMatchSeconds = 30
