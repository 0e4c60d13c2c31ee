package observer

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"openvic.dev/simcore/internal/calendar"
	"openvic.dev/simcore/internal/econmarket"
	"openvic.dev/simcore/internal/simlog"
	"openvic.dev/simcore/internal/simtelemetry"
	"openvic.dev/simcore/internal/worldstate"
)

// Server is the read-only gamestate query/streaming endpoint (spec.md
// §6). It holds references into the live worldstate but never writes to
// them; simtick.Driver owns all mutation.
type Server struct {
	Provinces *worldstate.ProvinceInstanceManager
	States    *worldstate.StateManager
	Goods     *econmarket.GoodInstanceManager
	Log       simlog.Sink

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]chan []byte
}

// NewServer builds a Server. Buffer sizes mirror the teacher's observer
// server's 64KiB read/write buffers.
func NewServer(provinces *worldstate.ProvinceInstanceManager, states *worldstate.StateManager, goods *econmarket.GoodInstanceManager, log simlog.Sink) *Server {
	if log == nil {
		log = simlog.Nop{}
	}
	return &Server{
		Provinces: provinces,
		States:    states,
		Goods:     goods,
		Log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sessions: make(map[string]chan []byte),
	}
}

// Snapshot builds the current BootstrapResponse from live worldstate.
func (s *Server) Snapshot() BootstrapResponse {
	resp := BootstrapResponse{ProtocolVersion: Version}

	for _, p := range s.Provinces.Items() {
		q := ProvinceQuery{
			ID:         p.Definition.ID,
			Population: p.PopulationSize().String(),
			RGOOutput:  p.RGOOutput.String(),
		}
		if p.Owner != nil {
			q.Owner = p.Owner.ID
		}
		if p.State != nil {
			q.StateID = p.State.ID
		}
		if p.ProductionType != nil {
			q.RGOGood = p.ProductionType.OutputGood.ID
		}
		resp.Provinces = append(resp.Provinces, q)
	}

	for _, st := range s.States.Items() {
		agg := st.Aggregates()
		q := StateQuery{
			ID:              st.ID,
			Population:      agg.Population.String(),
			AverageLiteracy: agg.AverageLiteracy.String(),
			Consciousness:   agg.AverageConsciousness.String(),
			Militancy:       agg.AverageMilitancy.String(),
			IndustrialPower: agg.IndustrialPower.String(),
			MaxRegiments:    agg.MaxRegiments,
			PopTypeSizes:    make(map[string]string, len(agg.PopTypeSizes)),
		}
		if st.Owner != nil {
			q.Owner = st.Owner.ID
		}
		for popType, size := range agg.PopTypeSizes {
			q.PopTypeSizes[popType] = size.String()
		}
		resp.States = append(resp.States, q)
	}

	for _, g := range s.Goods.Items() {
		resp.Goods = append(resp.Goods, GoodQuery{
			ID:              g.Definition.ID,
			Price:           g.Price().String(),
			SupplyYesterday: g.SupplyYesterday().String(),
			DemandYesterday: g.DemandYesterday().String(),
		})
	}

	return resp
}

// BootstrapHandler answers a plain HTTP GET with a one-shot snapshot.
func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.Snapshot())
	}
}

// WSHandler upgrades a loopback connection and streams a TickSummaryMsg
// after every daily tick once BroadcastTick is called. The handshake
// requires the client's first frame to be a valid SubscribeMsg, matching
// the teacher observer server's bootstrap-then-subscribe shape.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != "SUBSCRIBE" || sub.ProtocolVersion != Version {
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected SUBSCRIBE"), time.Now().Add(time.Second))
			return
		}

		sid := uuid.NewString()
		out := make(chan []byte, 8)
		s.addSession(sid, out)
		defer s.removeSession(sid)

		writeErr := make(chan error, 1)
		go func() {
			for b := range out {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					writeErr <- err
					return
				}
			}
			writeErr <- nil
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func (s *Server) addSession(id string, ch chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = ch
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	ch, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		close(ch)
	}
}

// BroadcastTick pushes a TickSummaryMsg to every connected session,
// dropping the message for any session whose outbound buffer is full
// rather than blocking the tick driver on a slow observer.
func (s *Server) BroadcastTick(date calendar.Date, entry simtelemetry.TickAuditEntry) {
	b, err := json.Marshal(TickSummaryMsg{
		Type:            "TICK",
		Date:            int64(date),
		ProvincesTicked: entry.ProvincesTicked,
		OrdersExecuted:  entry.OrdersExecuted,
	})
	if err != nil {
		s.Log.Warn("observer: failed to marshal tick summary: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.sessions {
		select {
		case ch <- b:
		default:
			s.Log.Warn("observer: dropping tick summary for a slow session")
		}
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
