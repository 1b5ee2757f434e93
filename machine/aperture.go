/*
 * valkyrie - Aperture bank windows (areas 02/03/16/17/18)
 *
 * Copyright 2026, Valkyrie Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package machine

import "github.com/valkyrie-emu/valkyrie/memctl"

// apertureWindow exposes one of the memory controller's banked areas
// (02/03/16/17/18) as a bus.Device: every access is translated through
// Controller.Translate/RouteBus rather than landing on a fixed buffer.
type apertureWindow struct {
	ctl  *memctl.Controller
	area int
}

// Get/Put receive addr already reduced to the window's 24-bit offset by
// the owning Mmap (Region.Mask == 0x00FFFFFF for every aperture region).
func (a apertureWindow) Get(size int, addr uint32) (uint64, error) {
	bus := a.ctl.Translate(a.area, addr&0x00FFFFFF)
	buf, off, err := a.ctl.RouteBus(bus)
	if err != nil {
		return 0, err
	}
	return buf.Get(size, off), nil
}

func (a apertureWindow) Put(size int, addr uint32, value uint64) error {
	bus := a.ctl.Translate(a.area, addr&0x00FFFFFF)
	buf, off, err := a.ctl.RouteBus(bus)
	if err != nil {
		return err
	}
	buf.Put(size, off, value)
	return nil
}

// apertureAreas are the board's aperture area codes; each gets its own
// bank register at memctl offset 0x10+area and its own 16MB CPU address window
// at area<<24.
var apertureAreas = []int{0x02, 0x03, 0x16, 0x17, 0x18}
