package engine

import (
	"fmt"

	"github.com/voltmesh/solarbot/pkg/message"
)

// Callback data for the top-level menu. The solar flow owns back_to_main so
// every screen in the bot can return here with one button.
const (
	actionSolarStart  = "solar_onboarding:start"
	actionEnergyStart = "energy_services:start"
	actionBackToMain  = "solar_onboarding:back_to_main"
)

func welcomeText(name string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("👋 Hi %s! Welcome to the DEG Energy Agent.\n\n"+
		"I can help you with:\n\n"+
		"1️⃣ **Onboard for Rooftop Solar**: Find subsidies, check eligibility, connect with installers\n\n"+
		"2️⃣ **Use My Installed System**: Sell excess energy, participate in demand response, earn with NFTs\n\n"+
		"What would you like to do today?", name)
}

func mainMenuKeyboard() *message.Keyboard {
	return (&message.Keyboard{}).
		Row(message.Button{Text: "✅ Onboard for Rooftop Solar", Data: actionSolarStart}).
		Row(message.Button{Text: "⚡ Use My Installed System", Data: actionEnergyStart})
}

const helpText = "**DEG Energy Agent Help**\n\n" +
	"Here are the commands you can use:\n\n" +
	"• /start - Start or restart the bot\n" +
	"• /help - Show this help message\n\n" +
	"You can also use the menu buttons to navigate and access different features."

const unknownCallbackText = "Sorry, I couldn't process that request. " +
	"Please try again or use the button below to return to the main menu."

func returnToMainKeyboard() *message.Keyboard {
	return (&message.Keyboard{}).
		Row(message.Button{Text: "🏠 Return to Main Menu", Data: actionBackToMain})
}

const noSessionText = "I'm not sure what you're looking for. " +
	"Please use the /start command to begin."

const useMenuText = "To navigate through the available options, please use the menu below."

const photoHintText = "Thanks for the photo! If you're trying to analyze your roof " +
	"for solar potential, please start the solar onboarding process first using the menu."
