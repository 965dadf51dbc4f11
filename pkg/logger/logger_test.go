package logger_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"blitzlog/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable instance", func() {
			log := logger.Get()
			So(log, ShouldNotBeNil)

			Convey("And logging with fields does not panic", func() {
				ctx := context.Background()
				So(func() {
					log.Info(ctx, "info message", logger.String("k", "v"))
					log.Debug(ctx, "debug message", logger.Int("n", 1))
					log.Warn(ctx, "warn message", logger.Bool("flag", true))
					log.Error(ctx, "error message", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("Then Named returns a scoped logger", func() {
			named := logger.Named("store")
			So(named, ShouldNotBeNil)
			So(func() {
				named.Info(context.Background(), "scoped message")
			}, ShouldNotPanic)
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		So(logger.String("k", "v"), ShouldResemble, logger.Field{Key: "k", Value: "v"})
		So(logger.Int("n", 3), ShouldResemble, logger.Field{Key: "n", Value: 3})
		So(logger.Int64("n", int64(3)), ShouldResemble, logger.Field{Key: "n", Value: int64(3)})
		So(logger.Float64("f", 1.5), ShouldResemble, logger.Field{Key: "f", Value: 1.5})
		So(logger.Bool("b", true), ShouldResemble, logger.Field{Key: "b", Value: true})
		So(logger.Any("a", []int{1}), ShouldResemble, logger.Field{Key: "a", Value: []int{1}})

		err := errors.New("boom")
		So(logger.Error(err), ShouldResemble, logger.Field{Key: "error", Value: err})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then known levels parse", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("info"), ShouldBeNil)
			So(logger.SetLevelString("warn"), ShouldBeNil)
			So(logger.SetLevelString("warning"), ShouldBeNil)
			So(logger.SetLevelString("error"), ShouldBeNil)
			So(logger.SetLevelString(" INFO "), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
		})

		Convey("Then unknown levels are rejected", func() {
			So(logger.SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("And SetLevel applies directly", func() {
			So(func() { logger.SetLevel(slog.LevelWarn) }, ShouldNotPanic)
			So(logger.SetLevelString("info"), ShouldBeNil)
		})
	})
}
