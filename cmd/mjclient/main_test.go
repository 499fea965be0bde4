package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webmajiang/mjnet/internal/capture"
	"github.com/webmajiang/mjnet/internal/config"
	"github.com/webmajiang/mjnet/internal/devserver"
	mjerrors "github.com/webmajiang/mjnet/internal/errors"
	"github.com/webmajiang/mjnet/pkg/client"
	"github.com/webmajiang/mjnet/pkg/protocol"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	noColor = true
	configPath = ""
	t.Cleanup(func() { noColor = false })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var e *mjerrors.Error
	require.ErrorAs(t, err, &e)
	return e.Code
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    command
		wantErr bool
	}{
		{line: "", want: command{}},
		{line: "quit", want: command{quit: true}},
		{line: "EXIT", want: command{quit: true}},
		{line: "?", want: command{help: true}},
		{line: "join", want: command{join: true}},
		{line: "discard 42", want: command{
			action:  protocol.ActionDiscardTile,
			payload: &protocol.PlayerActionData{TileID: protocol.Int32(42)},
		}},
		{line: "  action 3 -1 ", want: command{
			action:  protocol.ActionPlayerAction,
			payload: &protocol.PlayerActionData{ActionType: protocol.Int32(3), TileID: protocol.Int32(-1)},
		}},
		{line: "discard", wantErr: true},
		{line: "discard x", wantErr: true},
		{line: "action 1", wantErr: true},
		{line: "action 1 99999999999", wantErr: true},
		{line: "pung", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHex(t *testing.T) {
	for _, in := range []string{"0a0b", "0x0a0b", "0a 0b", "0a:0b", " 0A0B\n"} {
		got, err := parseHex(in)
		require.NoError(t, err, in)
		assert.Equal(t, []byte{0x0a, 0x0b}, got, in)
	}

	_, err := parseHex("zz")
	assert.Equal(t, "E140", errorCode(t, err))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, `{"ActionType":null,"TileID":7}`, describe(&protocol.PlayerActionData{TileID: protocol.Int32(7)}))
	assert.Equal(t, `{"Tiles":[1,2]}`, describe(&protocol.DealTilesData{Tiles: []int32{1, 2}}))
	assert.Equal(t, "<2 unknown bytes> 0102", describe(&protocol.Unknown{Data: []byte{1, 2}}))
}

func encodeInbound(t *testing.T, action protocol.Action, payload protocol.Message) []byte {
	t.Helper()
	data, err := protocol.DefaultCodec.Marshal(payload)
	require.NoError(t, err)
	frame, err := protocol.EncodeEnvelope(protocol.NewEnvelope(string(action), data))
	require.NoError(t, err)
	return frame
}

func TestDecodeCmd(t *testing.T) {
	frame := encodeInbound(t, protocol.ActionSyncState, &protocol.SyncStateData{
		RoomID:         protocol.String("r1"),
		RemainingTiles: protocol.Int32(83),
	})

	out, err := execute(t, "decode", hex.EncodeToString(frame))
	require.NoError(t, err)
	assert.Contains(t, out, "action:  sync_state")
	assert.Contains(t, out, `"RoomID":"r1"`)
	assert.Contains(t, out, `"RemainingTiles":83`)
}

func TestDecodeCmdErrors(t *testing.T) {
	_, err := execute(t, "decode", "ff")
	assert.Equal(t, "E140", errorCode(t, err))

	frame, err := protocol.EncodeEnvelope(protocol.NewEnvelope(string(protocol.ActionSyncState), []byte{0x0a, 0x10}))
	require.NoError(t, err)
	out, err := execute(t, "decode", hex.EncodeToString(frame))
	assert.Equal(t, "E141", errorCode(t, err))
	assert.Contains(t, out, "action:  sync_state")
}

func TestActionsCmd(t *testing.T) {
	out, err := execute(t, "actions")
	require.NoError(t, err)

	outbound, inbound, ok := strings.Cut(out, "Inbound:")
	require.True(t, ok)
	assert.Contains(t, outbound, "join_room")
	assert.Contains(t, outbound, "discard_tile")
	assert.Contains(t, outbound, "player_action")
	for _, a := range protocol.DefaultRegistry().InboundActions() {
		assert.Contains(t, inbound, string(a))
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mjclient dev")
	assert.Contains(t, out, "Go version:")
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)

	out, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = execute(t, "config", "init", path)
	assert.Equal(t, "E103", errorCode(t, err))

	_, err = execute(t, "config", "init", path, "--force")
	require.NoError(t, err)

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, config.DefaultServerURL)
	assert.Contains(t, out, config.DefaultRoomID)
}

func TestReplay(t *testing.T) {
	mock := clock.NewMock()
	var buf bytes.Buffer
	rec := capture.NewRecorder(&buf, capture.WithClock(mock))

	join, err := protocol.DefaultRegistry().EncodeFrame(protocol.ActionJoinRoom, &protocol.JoinRoomReq{
		RoomID:   protocol.String("r1"),
		PlayerID: protocol.String("p1"),
	})
	require.NoError(t, err)
	rec.ObserveFrame(client.DirectionOutbound, join)

	mock.Add(250 * time.Millisecond)
	rec.ObserveFrame(client.DirectionInbound, encodeInbound(t, protocol.ActionJoinRoomRes, &protocol.JoinRoomRes{Success: protocol.Bool(true)}))
	mock.Add(time.Second)
	rec.ObserveFrame(client.DirectionInbound, encodeInbound(t, protocol.ActionDealTiles, &protocol.DealTilesData{Tiles: []int32{5}}))
	rec.ObserveFrame(client.DirectionInbound, []byte{0xff})
	require.NoError(t, rec.Err())

	var out bytes.Buffer
	require.NoError(t, replay(capture.NewReader(buf.Bytes()), "", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "+0s → join_room")
	assert.Contains(t, lines[0], `"PlayerID":"p1"`)
	assert.Contains(t, lines[1], "+250ms ← join_room_res")
	assert.Contains(t, lines[2], "+1.25s ← deal_tiles")
	assert.Contains(t, lines[3], "invalid frame")
	assert.Equal(t, "1 sent, 3 received, 1 invalid", lines[5])

	out.Reset()
	require.NoError(t, replay(capture.NewReader(buf.Bytes()), protocol.ActionDealTiles, &out))
	assert.Equal(t, 1, strings.Count(out.String(), "deal_tiles"))
}

func TestReplayCmdErrors(t *testing.T) {
	_, err := execute(t, "replay", filepath.Join(t.TempDir(), "missing.mjcap"))
	assert.Equal(t, "E160", errorCode(t, err))

	path := filepath.Join(t.TempDir(), "bad.mjcap")
	require.NoError(t, os.WriteFile(path, []byte{1, 0}, 0o644))
	_, err = execute(t, "replay", path)
	assert.Equal(t, "E160", errorCode(t, err))
}

// safeBuffer is a bytes.Buffer safe for concurrent writes and reads.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunPlayAgainstDevServer(t *testing.T) {
	srv := httptest.NewServer(devserver.New(discardLogger(), devserver.WithSeed(1)).Handler())
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Server.URL = "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	cfg.Room.ID = "east"
	cfg.Player.ID = "alice"
	cfg.Capture.Dir = t.TempDir()

	stdin, input := io.Pipe()
	out := &safeBuffer{}
	errc := make(chan error, 1)
	go func() { errc <- runPlay(context.Background(), cfg, stdin, out, discardLogger()) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), string(protocol.ActionDealTiles))
	}, 5*time.Second, 10*time.Millisecond)

	io.WriteString(input, "discard abc\n")
	io.WriteString(input, "quit\n")

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runPlay did not return")
	}
	input.Close()

	text := out.String()
	assert.Contains(t, text, "connected")
	assert.Contains(t, text, string(protocol.ActionJoinRoomRes))
	assert.Contains(t, text, "is not a number")
	assert.Contains(t, text, "capture saved")

	matches, err := filepath.Glob(filepath.Join(cfg.Capture.Dir, "east-alice-*"+capture.FileExt))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	r, err := capture.ReadFile(matches[0])
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, client.DirectionOutbound, rec.Dir)
}

func TestRunPlayConnectFailure(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	srv.Close()

	cfg := config.DefaultConfig()
	cfg.Server.URL = url
	stdin, input := io.Pipe()
	defer input.Close()

	err := runPlay(context.Background(), cfg, stdin, io.Discard, discardLogger())
	assert.Equal(t, "E120", errorCode(t, err))
	assert.NotEmpty(t, cfg.Player.ID)
}

func TestErrorsCmdList(t *testing.T) {
	out, err := execute(t, "errors")
	require.NoError(t, err)
	assert.Contains(t, out, "connection:\n")
	assert.Contains(t, out, "  E120: Connection failed\n")
	for _, code := range mjerrors.GetAllCodes() {
		assert.Contains(t, out, code+": ")
	}
	assert.Less(t, strings.Index(out, "E100"), strings.Index(out, "E181"))
}

func TestErrorsCmdExplain(t *testing.T) {
	out, err := execute(t, "errors", "E120")
	require.NoError(t, err)
	assert.Contains(t, out, "E120  Connection failed (connection)")
	assert.Contains(t, out, "Hint: Check server.url")

	_, err = execute(t, "errors", "E999")
	assert.Equal(t, "E180", errorCode(t, err))
}

func TestPrintError(t *testing.T) {
	mjerrors.DisableColors()
	t.Cleanup(mjerrors.EnableColors)

	var out bytes.Buffer
	_, err := execute(t, "decode")
	require.Error(t, err)
	printError(&out, err)
	assert.Contains(t, out.String(), "ERROR E180: Invalid argument")

	out.Reset()
	printError(&out, mjerrors.New("E121"))
	assert.Contains(t, out.String(), "ERROR E121: ")
}
