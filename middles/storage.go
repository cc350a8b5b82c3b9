package middles

// Keys of the persisted session record. Each is an independent entry in the
// backing Storage; nothing makes the three writes atomic.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyRoles = "roles"
)

// Storage is the durable key/value mechanism a Session is mirrored into.
//
// In a server this is the cookie jar of the requesting browser (CookieJar);
// for tests and embedding a VolatileStorage will do.
type Storage interface {
	Get(key string) (string, bool)
	Put(key, value string)
	Remove(key string)
}
