/*
 * MIT License
 *
 * Copyright (c) 2022-2025 Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package actor

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/ownport/goactors/errors"
	"github.com/ownport/goactors/internal/sharedflag"
	"github.com/ownport/goactors/internal/xsync"
	"github.com/ownport/goactors/log"
	"github.com/ownport/goactors/mailbox"
	"github.com/ownport/goactors/mailbox/bolt"
	"github.com/ownport/goactors/mailbox/nats"
	"github.com/ownport/goactors/mailbox/redis"
	"github.com/ownport/goactors/telemetry"
)

// Environment handed to an os-process child
const (
	envKind        = "GOACTORS_KIND"
	envName        = "GOACTORS_NAME"
	envAddress     = "GOACTORS_ADDRESS"
	envFlags       = "GOACTORS_FLAGS"
	envInbox       = "GOACTORS_INBOX"
	envUpstream    = "GOACTORS_UPSTREAM"
	envLogLevel    = "GOACTORS_LOG_LEVEL"
	envAllowParent = "GOACTORS_ALLOW_PARENT"
	envIdle        = "GOACTORS_IDLE_INTERVAL"
)

// processWaitDelay bounds how long a child may take to notice its stop flag
// after the start context ended before it is killed.
const processWaitDelay = 5 * time.Second

func (a *Actor) checkProcess() error {
	if a.children.Len() > 0 {
		return gerrors.ErrProcessSupervisor
	}
	if _, err := lookupBehavior(a.kind); err != nil {
		return err
	}
	return nil
}

// startProcess re-executes the current binary as the actor child process
func (a *Actor) startProcess(ctx context.Context) error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}

	env := append(os.Environ(),
		envKind+"="+a.kind,
		envName+"="+a.name,
		envAddress+"="+a.address,
		envFlags+"="+a.flagFile.Path(),
		envInbox+"="+a.inbox.(mailbox.Locator).Locate(),
		envLogLevel+"="+a.logger.LogLevel().String(),
		envAllowParent+"="+strconv.FormatBool(a.allowParent),
		envIdle+"="+a.idleInterval.String(),
	)
	if parent := a.Parent(); parent != nil {
		if locator, ok := parent.inbox.(mailbox.Locator); ok {
			env = append(env, envUpstream+"="+locator.Locate())
		} else {
			a.logger.Warn("parent mailbox is not shareable, forwarding to parent is disabled")
		}
	}

	cmd := exec.CommandContext(ctx, executable)
	cmd.Env = append(env, a.processEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// the child exits on its own once the shared flag drops
	cmd.Cancel = func() error {
		a.Stop()
		return nil
	}
	cmd.WaitDelay = processWaitDelay

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting process of %s: %w", a, err)
	}
	a.cmd = cmd
	a.logger.Debugf("process started, pid=%d", cmd.Process.Pid)

	a.spawn(cmd.Wait)
	return nil
}

// ServeProcess runs the os-process actor described by the environment and
// exits the process when the actor stops. It returns immediately in a
// process that was not started as an actor child, so binaries call it
// first thing in main, or in TestMain for tests.
func ServeProcess() {
	kind := os.Getenv(envKind)
	if kind == "" {
		return
	}

	level := log.ParseLevel(os.Getenv(envLogLevel))
	logger := log.NewZap(level, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := serveProcess(ctx, kind, logger)
	stop()

	_ = logger.Sync()
	if err != nil {
		logger.Errorf("process actor failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func serveProcess(ctx context.Context, kind string, logger log.Logger) (err error) {
	behavior, err := lookupBehavior(kind)
	if err != nil {
		return err
	}

	flags, err := sharedflag.Open(os.Getenv(envFlags), flagCount)
	if err != nil {
		return err
	}

	inbox, err := OpenMailbox(ctx, os.Getenv(envInbox))
	if err != nil {
		return multierr.Append(err, flags.Close())
	}

	var upstream mailbox.Mailbox
	if locator := os.Getenv(envUpstream); locator != "" {
		if upstream, err = OpenMailbox(ctx, locator); err != nil {
			return multierr.Combine(err, inbox.Close(), flags.Close())
		}
	}

	idle, err := time.ParseDuration(os.Getenv(envIdle))
	if err != nil {
		idle = DefaultIdleInterval
	}
	allowParent, _ := strconv.ParseBool(os.Getenv(envAllowParent))

	tel, err := telemetry.New()
	if err != nil {
		return multierr.Combine(err, inbox.Close(), flags.Close())
	}

	a := &Actor{
		address:      os.Getenv(envAddress),
		name:         os.Getenv(envName),
		kind:         kind,
		family:       OSProcess,
		behavior:     behavior,
		inbox:        inbox,
		upstream:     upstream,
		allowParent:  allowParent,
		idleInterval: idle,
		flagFile:     flags,
		telemetry:    tel,
		children:     xsync.NewList[*Actor](),
		started:      atomic.NewBool(true),
		hasUnit:      atomic.NewBool(false),
		done:         make(chan struct{}),
	}
	a.processing, a.waiting = newSharedFlags(flags)
	a.logger = logger.With("actor", a.name, "address", a.address, "family", a.family.String())

	a.processingLoop = cycles{actor: a}
	a.logger.Debug("process actor running")
	err = a.run(ctx)
	return multierr.Append(err, a.close())
}

// OpenMailbox opens the mailbox designated by a locator. bolt, redis and
// nats locators are supported.
func OpenMailbox(ctx context.Context, locator string) (mailbox.Mailbox, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, gerrors.NewErrInvalidLocator(locator, err.Error())
	}
	switch u.Scheme {
	case bolt.Scheme:
		return bolt.Open(locator)
	case redis.Scheme:
		return redis.Open(ctx, locator)
	case nats.Scheme:
		return nats.Open(ctx, locator)
	default:
		return nil, gerrors.NewErrInvalidLocator(locator, "unsupported scheme")
	}
}
