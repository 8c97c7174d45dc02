package bambu

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"bambulink/printer"
)

// Printer drives one Bambu Lab printer over its local MQTT broker. It
// satisfies printer.Printer. Telemetry arrives on device/<serial>/report
// and is folded field-by-field into a snapshot cache with exactly one
// writer, the MQTT handler; commands go out on device/<serial>/request.
type Printer struct {
	ipAddress  string
	accessCode string
	serial     string

	client mqtt.Client
	seq    atomic.Uint64
	report sync.Map
	ready  atomic.Bool

	camera *Camera
}

var _ printer.Printer = (*Printer)(nil)

func NewPrinter(ipAddress, accessCode, serial string) *Printer {
	return &Printer{
		ipAddress:  ipAddress,
		accessCode: accessCode,
		serial:     serial,
		camera:     NewCamera(ipAddress, accessCode),
	}
}

// UseCamera swaps the owned camera, for non-stock ports or usernames.
// Call it before Connect.
func (p *Printer) UseCamera(c *Camera) {
	p.camera = c
}

// Connect brings up the MQTT channel and the camera loop.
func (p *Printer) Connect() error {
	if err := p.MQTTStart(); err != nil {
		return err
	}
	p.camera.Start()
	return nil
}

// Disconnect tears both down; the camera loop has fully terminated when
// it returns.
func (p *Printer) Disconnect() error {
	p.camera.Stop()
	p.MQTTStop()
	return nil
}

func (p *Printer) MQTTStart() error {
	if p.serial == "" {
		return fmt.Errorf("printer serial not set")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tls://%s:8883", p.ipAddress))
	opts.SetUsername(DefaultUsername)
	opts.SetPassword(p.accessCode)
	opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})

	// the printer drops duplicate client ids, so keep ours unique
	opts.SetClientID("bambulink-" + p.serial + "-" + uuid.NewString()[:8])
	opts.SetCleanSession(true)

	opts.OnConnect = func(c mqtt.Client) {
		log.Printf("[MQTT] connected to %s", p.serial)
		topic := fmt.Sprintf("device/%s/report", p.serial)
		c.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
			p.ingestReport(msg.Payload())
		})
		if ok, err := p.requestPushAll(); !ok || err != nil {
			log.Printf("[MQTT] pushall request failed: ok=%v err=%v", ok, err)
		}
	}

	p.client = mqtt.NewClient(opts)
	token := p.client.Connect()
	token.Wait()
	return token.Error()
}

func (p *Printer) MQTTStop() {
	if p.client != nil {
		p.client.Disconnect(1000)
	}
	p.ready.Store(false)
}

func (p *Printer) MQTTClientConnected() bool {
	return p.client != nil && p.client.IsConnected()
}

// MQTTClientReady reports whether the client is connected and has seen
// at least one report, i.e. the snapshot cache holds real data.
func (p *Printer) MQTTClientReady() bool {
	return p.MQTTClientConnected() && p.ready.Load()
}

func (p *Printer) CameraStart() bool       { return p.camera.Start() }
func (p *Printer) CameraStop()             { p.camera.Stop() }
func (p *Printer) CameraClientAlive() bool { return p.camera.IsAlive() }

func (p *Printer) Camera() printer.Camera { return p.camera }

// ingestReport folds the "print" object of one report message into the
// snapshot. Updates are additive, matching how the printer pushes
// partial state.
func (p *Printer) ingestReport(payload []byte) {
	var full map[string]any
	if err := json.Unmarshal(payload, &full); err != nil {
		return
	}
	printData, ok := full["print"].(map[string]any)
	if !ok {
		return
	}
	for k, v := range printData {
		p.report.Store(k, v)
	}
	p.ready.Store(true)
}

// MQTTDump returns a snapshot copy of the report cache.
func (p *Printer) MQTTDump() map[string]any {
	out := make(map[string]any)
	p.report.Range(func(key, value any) bool {
		out[key.(string)] = value
		return true
	})
	return out
}
