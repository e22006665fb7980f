package main

import (
	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderplane/glfwcontext"
	"github.com/richinsley/goshaderplane/panel"
	"github.com/rs/zerolog/log"
)

// bindPanelKeys drives the control panel from the keyboard:
// Tab/Shift+Tab focus, Up/Down nudge, R reset, P dump.
func bindPanelKeys(win *glfwcontext.Context, p *panel.Panel) {
	nudge := func(steps int) glfwcontext.KeyFunc {
		return func(glfw.ModifierKey) {
			if err := p.Nudge(steps); err != nil {
				log.Warn().Err(err).Msg("nudge failed")
			}
		}
	}

	win.RegisterKeyCallback(glfw.KeyTab, func(mods glfw.ModifierKey) {
		if mods&glfw.ModShift != 0 {
			p.FocusPrev()
		} else {
			p.FocusNext()
		}
	})
	win.RegisterKeyCallback(glfw.KeyUp, nudge(1))
	win.RegisterKeyCallback(glfw.KeyDown, nudge(-1))
	win.RegisterKeyCallback(glfw.KeyPageUp, nudge(10))
	win.RegisterKeyCallback(glfw.KeyPageDown, nudge(-10))
	win.RegisterKeyCallback(glfw.KeyR, func(glfw.ModifierKey) {
		if err := p.ResetFocused(); err != nil {
			log.Warn().Err(err).Msg("reset failed")
		}
	})
	win.RegisterKeyCallback(glfw.KeyP, func(glfw.ModifierKey) { p.Dump() })
}
