package peer

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/log"
)

type (
	// Directory lists the addresses of the peers that host rooms so other peers can find them by room code.
	// It only does signalling: the rooms run in the processes of their hosts.
	// Listings that are not refreshed expire.
	Directory struct {
		mu       sync.Mutex
		listings map[game.ID]Listing
		DirectoryConfig
	}

	// DirectoryConfig is used to create a Directory.
	DirectoryConfig struct {
		// Log is used to log errors and other information.
		Log log.Logger
		// MaxHosts is the most rooms that can be listed at the same time.
		MaxHosts int
		// TTL is how long a listing lasts after it is registered or refreshed.
		TTL time.Duration
		// TimeFunc is a function which should supply the current time since the unix epoch.
		TimeFunc func() int64
		// IDReader is the random source of room codes.  Crypto random bytes are used if nil.
		IDReader io.Reader
	}

	// Listing is where a host peer serves a room.
	Listing struct {
		// ID is the code of the room.
		ID game.ID `json:"id"`
		// Name is the display name the host gave the room.
		Name string `json:"name"`
		// Address is the websocket url of the host.
		Address string `json:"address"`
		// ExpiresAt is when the listing is removed if the host does not refresh it, in seconds since the unix epoch.
		ExpiresAt int64 `json:"expiresAt"`
		// HostID is the player that registered the listing, who is the only player that can change it.
		HostID player.ID `json:"-"`
	}
)

var (
	// ErrInvalidAddress is returned when a host registers an address that other peers cannot dial.
	ErrInvalidAddress = errors.New("host address must be a ws or wss url")
	// ErrTooManyHosts is returned when the directory is full.
	ErrTooManyHosts = errors.New("too many rooms are hosted by peers")
)

// NewDirectory creates an empty directory.
func (cfg DirectoryConfig) NewDirectory() (*Directory, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating directory: validation: %w", err)
	}
	d := Directory{
		listings:        make(map[game.ID]Listing, cfg.MaxHosts),
		DirectoryConfig: cfg,
	}
	return &d, nil
}

// validate ensures the configuration has no errors.
func (cfg DirectoryConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.MaxHosts < 1:
		return fmt.Errorf("must be able to list at least one host")
	case cfg.TTL < time.Second:
		return fmt.Errorf("listings must last at least a second")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	}
	return nil
}

// Register lists a new room that the player hosts at the address.
func (d *Directory) Register(hostID player.ID, name, address string) (*Listing, error) {
	if len(hostID) == 0 {
		return nil, fmt.Errorf("registering host: player id required")
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeExpired()
	if len(d.listings) >= d.MaxHosts {
		return nil, fmt.Errorf("%w (%v)", ErrTooManyHosts, d.MaxHosts)
	}
	id, err := d.newID()
	if err != nil {
		return nil, err
	}
	l := Listing{
		ID:        id,
		Name:      name,
		Address:   address,
		ExpiresAt: d.expiresAt(),
		HostID:    hostID,
	}
	d.listings[id] = l
	d.Log.Printf("listing room %v hosted by %v at %v", id, hostID, address)
	return &l, nil
}

// Lookup gets the listing of the room.
func (d *Directory) Lookup(id game.ID) (*Listing, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, err := d.listing(id)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Refresh extends the time the room is listed for.  Only the host of the room can refresh it.
func (d *Directory) Refresh(id game.ID, hostID player.ID) (*Listing, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, err := d.hostListing(id, hostID)
	if err != nil {
		return nil, err
	}
	l.ExpiresAt = d.expiresAt()
	d.listings[id] = l
	return &l, nil
}

// Remove stops listing the room.  Only the host of the room can remove it.
func (d *Directory) Remove(id game.ID, hostID player.ID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := d.hostListing(id, hostID); err != nil {
		return err
	}
	delete(d.listings, id)
	d.Log.Printf("stopped listing room %v", id)
	return nil
}

// listing gets the room if it has not expired.
func (d *Directory) listing(id game.ID) (Listing, error) {
	l, ok := d.listings[id]
	switch {
	case !ok:
		return Listing{}, fmt.Errorf("%v: %w", id, game.ErrPeerUnavailable)
	case l.ExpiresAt <= d.TimeFunc():
		delete(d.listings, id)
		return Listing{}, fmt.Errorf("%v expired: %w", id, game.ErrPeerUnavailable)
	}
	return l, nil
}

// hostListing gets the room if the player hosts it.
func (d *Directory) hostListing(id game.ID, hostID player.ID) (Listing, error) {
	l, err := d.listing(id)
	if err != nil {
		return Listing{}, err
	}
	if l.HostID != hostID {
		return Listing{}, fmt.Errorf("changing listing of %v: %w", id, game.ErrNotHost)
	}
	return l, nil
}

// removeExpired stops listing rooms that their hosts stopped refreshing.
func (d *Directory) removeExpired() {
	now := d.TimeFunc()
	for id, l := range d.listings {
		if l.ExpiresAt <= now {
			delete(d.listings, id)
			d.Log.Printf("listing of room %v expired", id)
		}
	}
}

// expiresAt is the expiration time of listings that are registered or refreshed now.
func (d *Directory) expiresAt() int64 {
	return d.TimeFunc() + int64(d.TTL/time.Second)
}

// newID creates a room code that is not used by another listing.
func (d *Directory) newID() (game.ID, error) {
	for i := 0; i < 10; i++ {
		id, err := game.NewID(d.IDReader)
		if err != nil {
			return "", err
		}
		if _, ok := d.listings[id]; !ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not create unique room code")
}

// validateAddress ensures the address is a websocket url with a host.
func validateAddress(address string) error {
	u, err := url.Parse(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	switch {
	case u.Scheme != "ws" && u.Scheme != "wss":
		return fmt.Errorf("%w: got scheme %q", ErrInvalidAddress, u.Scheme)
	case len(u.Hostname()) == 0:
		return fmt.Errorf("%w: host required", ErrInvalidAddress)
	}
	return nil
}
