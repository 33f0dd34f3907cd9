package viewer

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/google/uuid"
	"github.com/jasonbot/constile"
	gossh "golang.org/x/crypto/ssh"
)

type contextKey string

const viewerPubkey contextKey = "constile-pubkey"

type viewerServer struct {
	tiles    constile.TileCollection
	store    *ViewerStore
	sessions sync.Map
}

func (srv *viewerServer) online() int {
	count := 0
	srv.sessions.Range(func(k, v interface{}) bool {
		count++
		return true
	})
	return count
}

func (srv *viewerServer) spawn() Point {
	return Point{X: srv.tiles.Width() / 2, Y: srv.tiles.Height() / 3}
}

func (srv *viewerServer) clampCamera(viewer *ViewerData) {
	viewer.X = clamp(viewer.X, 0, srv.tiles.Width()-1)
	viewer.Y = clamp(viewer.Y, 0, srv.tiles.Height()-1)
}

func (srv *viewerServer) handleConnection(s ssh.Session) {
	viewer, err := srv.store.Viewer(s.User(), srv.spawn())
	if err != nil {
		log.Printf("Can't load viewer %s: %v", s.User(), err)
		s.Write([]byte("Could not load your viewer record.\n"))
		s.Close()
		return
	}
	srv.clampCamera(viewer)

	if len(s.Command()) > 0 {
		s.Write([]byte("Commands are not supported.\n"))
		s.Close()
		return
	}

	pubKey, _ := s.Context().Value(viewerPubkey).(string)
	if viewer.SSHKeysEmpty() {
		viewer.AddSSHKey(pubKey)
		log.Printf("Saving SSH key for %s", viewer.Name)
		if err := srv.store.Save(viewer); err != nil {
			log.Printf("Can't save viewer %s: %v", viewer.Name, err)
		}
	} else if !viewer.ValidateSSHKey(pubKey) {
		s.Write([]byte("This is not the SSH key verified for this viewer. Try another username.\n"))
		log.Printf("Viewer %s doesn't use this key.", viewer.Name)
		s.Close()
		return
	}

	sessionID := uuid.New().String()
	srv.sessions.Store(sessionID, viewer.Name)
	defer srv.sessions.Delete(sessionID)

	log.Printf("Connected with %v (as %v, session %v) at %s",
		s.RemoteAddr(), viewer.Name, sessionID, time.Now().UTC().Format(time.RFC3339))

	screen := NewSSHScreen(s, srv.tiles, viewer, srv.online)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := s.Context().Done()
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	stringInput := make(chan inputEvent, 1)
	reader := bufio.NewReader(s)

	go handleKeys(ctx, reader, stringInput, cancel)

	screen.Render()

	for {
		select {
		case inputString := <-stringInput:
			if inputString.err != nil {
				srv.disconnect(s, screen, viewer)
				return
			}
			switch inputString.inputString {
			case "UP":
				screen.Pan(0, -1)
			case "DOWN":
				screen.Pan(0, 1)
			case "LEFT":
				screen.Pan(-1, 0)
			case "RIGHT":
				screen.Pan(1, 0)
			case "i", "I":
				screen.ToggleInspect()
			case "q", "Q":
				srv.disconnect(s, screen, viewer)
				return
			}
		case <-ctx.Done():
			srv.disconnect(s, screen, viewer)
			return
		case <-tick.C:
			screen.Render()
		case <-done:
			srv.sessionEnded(s, viewer)
			return
		}
	}
}

func (srv *viewerServer) disconnect(s ssh.Session, screen Screen, viewer *ViewerData) {
	srv.sessionEnded(s, viewer)
	screen.Reset()
	s.Close()
}

// sessionEnded saves the viewer without touching the session, which may
// already be gone.
func (srv *viewerServer) sessionEnded(s ssh.Session, viewer *ViewerData) {
	log.Printf("Disconnected %v (%s at %d, %d)", s.RemoteAddr(), viewer.Name, viewer.X, viewer.Y)
	if err := srv.store.Save(viewer); err != nil {
		log.Printf("Can't save viewer %s: %v", viewer.Name, err)
	}
}

// ServeSSH runs the SSH server that lets terminals browse tiles. It only
// returns when the listener fails.
func ServeSSH(listen, hostKeyFile string, tiles constile.TileCollection, store *ViewerStore) error {
	privateKey, err := makeKeyFiles(hostKeyFile)
	if err != nil {
		return fmt.Errorf("host key: %w", err)
	}

	srv := &viewerServer{tiles: tiles, store: store}

	publicKeyOption := ssh.PublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
		marshal := gossh.MarshalAuthorizedKey(key)
		ctx.SetValue(viewerPubkey, string(marshal))
		return true
	})

	log.Printf("Starting SSH server on %v", listen)
	return ssh.ListenAndServe(listen, srv.handleConnection, publicKeyOption, ssh.HostKeyFile(privateKey))
}
