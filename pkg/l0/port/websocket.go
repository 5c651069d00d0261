package port

import (
	"fmt"
	"net/url"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

func openWebsocket(u *url.URL) (*Port, error) {
	origin := url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	conn, err := websocket.Dial(u.String(), "", origin.String())
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	conn.PayloadType = websocket.BinaryFrame
	glog.Infof("connected %s", u.String())
	return FromStream(u.String(), conn), nil
}
