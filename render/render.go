/*
Copyright © 2025 Jan-Phillip Oesterling <jpo@hav.media>

Licensed under the GNU GPL License, Version 3.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at
https://www.gnu.org/licenses/gpl-3.0.en.html

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package render

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/erikgeiser/promptkit/textinput"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func GetDefaultTextInput(prompt string, defaultValue string, placeholder string) *textinput.TextInput {
	inputPrompt := fmt.Sprintf("%s: ", prompt)

	if defaultValue != "" {
		inputPrompt = fmt.Sprintf("%s \033[3m(default: %s)\033[0m: ", prompt, defaultValue)
	}

	input := textinput.New(inputPrompt)
	input.Placeholder = placeholder
	input.InitialValue = ""

	input.InputTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("120"))

	if defaultValue != "" {
		input.Validate = nil
	}

	return input
}

func GetLogger(options log.Options) *log.Logger {
	options.ReportCaller = false
	options.ReportTimestamp = true
	options.TimeFormat = time.Kitchen

	return log.NewWithOptions(os.Stderr, options)
}

func RenderAuraBig() {
	pterm.Println()

	s, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Au", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("ra", pterm.FgLightMagenta.ToStyle())).Srender()
	pterm.DefaultCenter.Println(s)
}
