package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		SetLevel(slog.LevelInfo)
		var buf bytes.Buffer
		log := New(&buf)
		ctx := context.Background()

		Convey("When logging at info with fields", func() {
			log.Named("cycle").Info(ctx, "publishing", String("period", "1001"), Int("streak", 2))

			Convey("Then the line carries component and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "msg=publishing")
				So(out, ShouldContainSubstring, "component=cycle")
				So(out, ShouldContainSubstring, "period=1001")
				So(out, ShouldContainSubstring, "streak=2")
			})

			Convey("And the timestamp is rendered to the second", func() {
				So(regexp.MustCompile(`time="\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}"`).MatchString(buf.String()), ShouldBeTrue)
			})
		})

		Convey("When logging below the level", func() {
			log.Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			log.Debug(ctx, "visible", Error(errors.New("boom")))
			SetLevel(slog.LevelInfo)

			Convey("Then debug lines appear", func() {
				So(buf.String(), ShouldContainSubstring, "msg=visible")
				So(buf.String(), ShouldContainSubstring, "error=boom")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
		SetLevel(slog.LevelInfo)
	})
}

func TestGlobal(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)
		So(Get(), ShouldNotBeNil)
		So(func() { Nop().Info(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
