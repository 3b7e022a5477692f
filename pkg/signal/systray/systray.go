package systray

import (
	"fmt"

	"github.com/getlantern/systray"

	"github.com/blaubaer/call-indicator/pkg/session"
	"github.com/blaubaer/call-indicator/pkg/signal"
)

type Systray struct {
	IconPhone []byte
	IconPause []byte

	// Apply is used to draw the tray. Defaults to the current systray.
	Apply func(icon []byte, tooltip string)

	lastIcon    session.Icon
	lastTooltip string
}

func (this *Systray) Initialize() error {
	if len(this.IconPhone) == 0 {
		return fmt.Errorf("IconPhone is empty")
	}
	if len(this.IconPause) == 0 {
		return fmt.Errorf("IconPause is empty")
	}
	return nil
}

func (this *Systray) Dispose() error {
	return nil
}

func (this *Systray) Ensure(ctx signal.Context) error {
	p := ctx.Presentation()
	tooltip := p.Label
	if v := ctx.Snapshot().LastError; v != "" {
		tooltip = fmt.Sprintf("%s\nLast error: %s", tooltip, v)
	}
	if p.Icon == this.lastIcon && tooltip == this.lastTooltip {
		return nil
	}

	icon := this.IconPhone
	if p.Icon == session.IconPause {
		icon = this.IconPause
	}
	this.apply(icon, tooltip)
	this.lastIcon = p.Icon
	this.lastTooltip = tooltip

	return nil
}

func (this *Systray) apply(icon []byte, tooltip string) {
	if v := this.Apply; v != nil {
		v(icon, tooltip)
		return
	}
	systray.SetIcon(icon)
	systray.SetTooltip(tooltip)
}

func (this *Systray) Update() error {
	return nil
}

func (this *Systray) GetType() signal.Type {
	return signal.TypeSystray
}
