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

// Family is the execution strategy of an actor.
type Family int

const (
	unsetFamily Family = iota
	// CooperativeStep actors advance one step each time they are driven,
	// by their own Run loop or by a supervising parent.
	CooperativeStep
	// CooperativeGreen actors run their processing loop as a goroutine and
	// are observed one scheduling point at a time by their driver.
	CooperativeGreen
	// OSThread actors run their loop on a dedicated, locked OS thread.
	OSThread
	// OSProcess actors run their loop in a child OS process.
	OSProcess
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case CooperativeStep:
		return "cooperative-step"
	case CooperativeGreen:
		return "cooperative-green"
	case OSThread:
		return "os-thread"
	case OSProcess:
		return "os-process"
	default:
		return "unset"
	}
}

// IsValid reports whether f names one of the four families.
func (f Family) IsValid() bool {
	return f >= CooperativeStep && f <= OSProcess
}

// cooperative families need an external driver.
func (f Family) cooperative() bool {
	return f == CooperativeStep || f == CooperativeGreen
}
