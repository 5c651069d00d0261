package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/robotalks/uartpump/pkg/l1/comm/mqtt"
	"github.com/robotalks/uartpump/pkg/l1/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/uartpump/"
)

func init() {
	if val := os.Getenv("UARTPUMP_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}

	q.Sub("#", mqtt.Handler(func(topic string, payload []byte) {
		switch {
		case strings.HasSuffix(topic, "/"+mqtt.TopicMeta), strings.HasSuffix(topic, "/"+mqtt.TopicDiag):
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeId, err)
			return
		}
		switch m := msg.(type) {
		case *msgs.ByteEvent:
			log.Printf("%s: #%d %-5s 0x%02x", topic, m.Seq, m.ByteClass(), m.Value)
		case *msgs.Overflow:
			log.Printf("%s: #%d DROPPED 0x%02x (total %d)", topic, m.Seq, m.Value, m.Dropped)
		default:
			log.Printf("%s: %s", topic, msg.Serializable().String())
		}
	}))
	<-(chan struct{})(nil)
}
