package dtmf

import (
	"fmt"
	"io"
)

/*------------------------------------------------------------------
 *
 * Name:        SelfTest
 *
 * Purpose:     Check the whole chain without any audio hardware.
 *
 * Description:	Each symbol in the table is synthesized, fed
 *		straight back through the receive chain, and the
 *		result compared.  One line per symbol to w.
 *
 * Returns:     Number of symbols not recovered.
 *
 *----------------------------------------------------------------*/

func SelfTest(cfg *Config, w io.Writer) (int, error) {
	var osc = new(Oscillators)
	var synth = NewToneSynthesizer(osc, cfg.SampleRate, cfg.MaxAmplitude, nil)

	var receiver, err = NewReceiverFromConfig(cfg, NewLoopbackSource(synth, cfg.MaxAmplitude))
	if err != nil {
		return 0, err
	}

	var failures = 0

	for _, def := range NewSymbolTable(cfg.ExtendedKeypad).All() {
		osc.SetTones(def.Low, def.High)

		var res, passErr = receiver.Pass()
		if passErr != nil {
			return failures, passErr
		}

		if res.Outcome == OutcomeDetected && res.Symbol == def.Symbol {
			fmt.Fprintf(w, "%c  %4.0f Hz %4.0f Hz  ok    (error %2.0f Hz)\n", def.Symbol, res.LowFreq, res.HighFreq, res.MatchError)
			continue
		}

		failures++

		fmt.Fprintf(w, "%c  %4.0f Hz %4.0f Hz  FAIL  %s %c (error %2.0f Hz)\n",
			def.Symbol, res.LowFreq, res.HighFreq, res.Outcome, res.Symbol, res.MatchError)
	}

	osc.Mute()

	var res, passErr = receiver.Pass()
	if passErr != nil {
		return failures, passErr
	}

	if res.Outcome != OutcomeSilence {
		failures++

		fmt.Fprintf(w, "muted  FAIL  %s\n", res.Outcome)
	} else {
		fmt.Fprintf(w, "muted  ok\n")
	}

	return failures, nil
}
