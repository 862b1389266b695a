// Copyright 2016 Hillcrest Laboratories, Inc. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hubctl drives a BNO070-class sensor hub over I²C from the command line.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"strconv"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/hcrest/bno070-driver/hcbin"
	"github.com/hcrest/bno070-driver/hub"
	"github.com/hcrest/bno070-driver/periphplatform"
)

func mainImpl() error {
	i2cName := flag.String("i2c", "", "I²C bus to use")
	i2cHz := flag.Int("i2chz", 0, "I²C bus speed")
	addr := flag.Int("addr", 0x4b, "hub I²C address")
	resetName := flag.String("reset", "", "RESET_N GPIO pin name")
	bootnName := flag.String("bootn", "", "BOOTN GPIO pin name")
	intnName := flag.String("intn", "", "INTN GPIO pin name")
	unit := flag.Int("unit", 0, "hub unit index")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	if flag.NArg() < 1 {
		return errors.New("supply a subcommand: events, prodid, errors, metadata, tare, dfu")
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	i2cBus, err := i2creg.Open(*i2cName)
	if err != nil {
		return err
	}
	defer i2cBus.Close()
	if *i2cHz != 0 {
		if err := i2cBus.SetSpeed(int64(*i2cHz)); err != nil {
			return err
		}
	}

	reset := gpioreg.ByName(*resetName)
	if reset == nil {
		return fmt.Errorf("hubctl: invalid RESET pin %q", *resetName)
	}
	bootn := gpioreg.ByName(*bootnName)
	if bootn == nil {
		return fmt.Errorf("hubctl: invalid BOOTN pin %q", *bootnName)
	}
	intn := gpioreg.ByName(*intnName)
	if intn == nil {
		return fmt.Errorf("hubctl: invalid INTN pin %q", *intnName)
	}
	intnIn, ok := intn.(gpio.PinIn)
	if !ok {
		return fmt.Errorf("hubctl: %q is not an input pin", *intnName)
	}
	if err := intnIn.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return err
	}
	resetOut, ok := reset.(gpio.PinOut)
	if !ok {
		return fmt.Errorf("hubctl: %q is not an output pin", *resetName)
	}
	bootnOut, ok := bootn.(gpio.PinOut)
	if !ok {
		return fmt.Errorf("hubctl: %q is not an output pin", *bootnName)
	}

	p := periphplatform.New(i2cBus, uint16(*addr), resetOut, bootnOut, intnIn)

	args := flag.Args()
	switch args[0] {
	case "dfu":
		if len(args) != 2 {
			return errors.New("usage: hubctl dfu <firmware.hcbin>")
		}
		blob := hcbin.New(args[1])
		return hub.PerformDfu(p, blob)
	case "events":
		return cmdEvents(p, *unit)
	case "prodid":
		return cmdProdID(p, *unit)
	case "errors":
		return cmdErrors(p, *unit)
	case "metadata":
		if len(args) != 2 {
			return errors.New("usage: hubctl metadata <sensorId>")
		}
		return cmdMetadata(p, *unit, args[1])
	case "tare":
		return cmdTare(p, *unit)
	default:
		return fmt.Errorf("hubctl: unknown subcommand %q", args[0])
	}
}

func cmdEvents(p hub.Platform, unit int) error {
	s, err := hub.Open(unit, p)
	if err != nil {
		return err
	}
	for {
		e, err := s.GetEventTO(time.Second)
		if err != nil {
			if err == hub.StatusNoData {
				continue
			}
			return err
		}
		fmt.Printf("sensor=0x%02x seq=%d t=%dus %v\n", e.Sensor, e.SequenceNumber, e.TimeUS, e.Field16)
	}
}

func cmdProdID(p hub.Platform, unit int) error {
	s, err := hub.Open(unit, p)
	if err != nil {
		return err
	}
	ids, err := s.GetProdIds()
	if err != nil {
		return err
	}
	for i, id := range ids {
		fmt.Printf("product %d: sw %d.%d.%d part=%d build=%d resetCause=%d\n",
			i, id.SWVersionMajor, id.SWVersionMinor, id.SWVersionPatch,
			id.SWPartNumber, id.SWBuildNumber, id.ResetCause)
	}
	return nil
}

func cmdErrors(p hub.Platform, unit int) error {
	s, err := hub.Open(unit, p)
	if err != nil {
		return err
	}
	errs, err := s.GetErrors(0, 32)
	if err != nil {
		return err
	}
	for _, e := range errs {
		fmt.Printf("severity=%d source=%d error=%d module=%d code=%d\n",
			e.Severity, e.Source, e.Error, e.Module, e.Code)
	}
	return nil
}

func cmdMetadata(p hub.Platform, unit int, sensorArg string) error {
	n, err := strconv.ParseUint(sensorArg, 0, 8)
	if err != nil {
		return fmt.Errorf("hubctl: bad sensor id %q: %w", sensorArg, err)
	}
	s, err := hub.Open(unit, p)
	if err != nil {
		return err
	}
	m, err := s.GetMetadata(hub.SensorID(n))
	if err != nil {
		return err
	}
	fmt.Printf("range=%d resolution=%d power_mA(Q10)=%d revision=%d minPeriod_us=%d vendor=%q\n",
		m.Range, m.Resolution, m.PowerMA, m.Revision, m.MinPeriodUS, m.VendorID)
	return nil
}

func cmdTare(p hub.Platform, unit int) error {
	s, err := hub.Open(unit, p)
	if err != nil {
		return err
	}
	return s.TareNow(hub.TareAxisX|hub.TareAxisY|hub.TareAxisZ, hub.TareBasisRotationVector)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "\nhubctl: %s.\n", err)
		os.Exit(1)
	}
}
